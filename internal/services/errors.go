package services

import "errors"

// Service-level errors layered over the repository sentinels
var (
	// ErrInvalidTarget means the report's content type/id pair does not
	// resolve to an existing entity of that type
	ErrInvalidTarget = errors.New("report target does not exist")

	// ErrAlreadyResolved means the report reached a terminal status and
	// cannot transition again
	ErrAlreadyResolved = errors.New("report already resolved or dismissed")

	// ErrInvalidAction means the resolution action is not in the closed set
	ErrInvalidAction = errors.New("invalid moderation action")

	// ErrPartialFailure means the moderation side effect was applied but the
	// report could not be marked resolved; callers should re-mark without
	// re-applying the action
	ErrPartialFailure = errors.New("action applied but report update failed")

	// ErrSelfVote means self-voting is disabled and the voter authored the
	// content
	ErrSelfVote = errors.New("voting on own content is not allowed")
)
