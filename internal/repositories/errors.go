package repositories

import "errors"

// Sentinel errors shared by the repositories. Callers match them with
// errors.Is and translate to transport-level responses.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid id format")
	ErrDuplicateReport    = errors.New("content already reported by this user")
	ErrTerminalStatus     = errors.New("report already in a terminal status")
	ErrEventFull          = errors.New("event is at full capacity")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrRegistrationClosed = errors.New("event is not open for registration")
	ErrNotRegistered      = errors.New("not registered for this event")
)
