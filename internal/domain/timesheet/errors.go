package timesheet

import "errors"

var (
	ErrSessionNotFound   = errors.New("Session not found")
	ErrBreakTypeNotFound = errors.New("Break type not found")

	// ErrNoPrimarySession: a break was requested without an open clock-in.
	ErrNoPrimarySession = errors.New("Clock in before starting a break")

	// ErrAnotherBreakActive: a second concurrent secondary break was requested.
	ErrAnotherBreakActive = errors.New("Another break is active; close it first")

	// ErrTooManyActiveSessions: reactivating a session would break the
	// at-most-one-active rule for its class.
	ErrTooManyActiveSessions = errors.New("Another session of this kind is already active")

	ErrInvalidCredential = errors.New("Invalid break type credential")
)
