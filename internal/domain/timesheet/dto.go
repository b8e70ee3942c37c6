package timesheet

import "time"

// PunchResult is returned by punch operations: the employee's active sessions
// after the operation plus a human-readable outcome.
type PunchResult struct {
	Message        string
	ActiveSessions []Session
}

// SessionPatch lists the mutable fields of a historical session correction.
// Nil means "leave unchanged"; there are no implicit empty-value checks.
type SessionPatch struct {
	PunchIn     *time.Time
	PunchOut    *time.Time
	BreakTypeID *int64
	IsActive    *bool
}

// IsZero reports whether the patch changes nothing.
func (p SessionPatch) IsZero() bool {
	return p.PunchIn == nil && p.PunchOut == nil && p.BreakTypeID == nil && p.IsActive == nil
}
