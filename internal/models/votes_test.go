package models

import "testing"

func TestVotesApplyMutualExclusion(t *testing.T) {
	var v Votes

	v.Apply(1, VoteUp)
	if len(v.Up) != 1 || len(v.Down) != 0 {
		t.Fatalf("after up vote: up=%v down=%v", v.Up, v.Down)
	}

	v.Apply(1, VoteDown)
	if len(v.Up) != 0 {
		t.Errorf("voter still in up set after switching: %v", v.Up)
	}
	if len(v.Down) != 1 || v.Down[0] != 1 {
		t.Errorf("voter missing from down set after switching: %v", v.Down)
	}
}

func TestVotesApplyIdempotent(t *testing.T) {
	var v Votes

	v.Apply(1, VoteUp)
	v.Apply(1, VoteUp)
	if len(v.Up) != 1 {
		t.Errorf("repeated up vote duplicated entry: %v", v.Up)
	}
	if got := v.Score(); got != 1 {
		t.Errorf("Score() = %d, want 1", got)
	}
}

func TestVotesApplyClear(t *testing.T) {
	var v Votes

	v.Apply(1, VoteUp)
	v.Apply(1, VoteDown)
	v.Apply(1, VoteNone)
	if len(v.Up) != 0 || len(v.Down) != 0 {
		t.Errorf("vote not cleared: up=%v down=%v", v.Up, v.Down)
	}
	if got := v.Score(); got != 0 {
		t.Errorf("Score() = %d, want 0", got)
	}
}

func TestVotesApplyOnlyTouchesOneVoter(t *testing.T) {
	v := Votes{Up: []uint{2, 3}, Down: []uint{4}}

	v.Apply(3, VoteDown)
	if len(v.Up) != 1 || v.Up[0] != 2 {
		t.Errorf("unrelated up votes disturbed: %v", v.Up)
	}
	if len(v.Down) != 2 {
		t.Errorf("down set = %v, want voters 4 and 3", v.Down)
	}
	if got := v.Score(); got != -1 {
		t.Errorf("Score() = %d, want -1", got)
	}
}

func TestValidVoteDirection(t *testing.T) {
	for _, d := range []string{VoteUp, VoteDown, VoteNone} {
		if !ValidVoteDirection(d) {
			t.Errorf("ValidVoteDirection(%q) = false", d)
		}
	}
	if ValidVoteDirection("sideways") {
		t.Error("ValidVoteDirection accepted an unknown direction")
	}
}
