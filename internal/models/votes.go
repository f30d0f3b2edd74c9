package models

// Vote directions accepted by the vote endpoints. VoteNone clears the
// caller's vote.
const (
	VoteUp   = "up"
	VoteDown = "down"
	VoteNone = "none"
)

// ValidVoteDirection reports whether d is one of up, down or none
func ValidVoteDirection(d string) bool {
	return d == VoteUp || d == VoteDown || d == VoteNone
}

// Votes holds the per-content vote ledger: the sets of user IDs that voted
// up and down. A voter appears in at most one of the two sets.
type Votes struct {
	Up   []uint `json:"up" bson:"up"`
	Down []uint `json:"down" bson:"down"`
}

// Apply records voterID's vote. The voter is first removed from both sets,
// then inserted into the target set unless direction is VoteNone, so the
// mutual-exclusion invariant holds regardless of prior state and repeated
// calls with the same direction are no-ops.
func (v *Votes) Apply(voterID uint, direction string) {
	v.Up = removeVoter(v.Up, voterID)
	v.Down = removeVoter(v.Down, voterID)
	switch direction {
	case VoteUp:
		v.Up = append(v.Up, voterID)
	case VoteDown:
		v.Down = append(v.Down, voterID)
	}
}

// Score returns |up| - |down|
func (v Votes) Score() int {
	return len(v.Up) - len(v.Down)
}

func removeVoter(ids []uint, voterID uint) []uint {
	out := ids[:0]
	for _, id := range ids {
		if id != voterID {
			out = append(out, id)
		}
	}
	return out
}

// VoteResult is returned after a vote is cast
type VoteResult struct {
	Score     int `json:"vote_score"`
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// VoteRequest defines the request body for voting on a post or comment
type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down none"`
}
