package timesheet

import "time"

// PrimaryBreakTypeID is the reserved break type for the clock-in/out
// attendance session. Every other break type is a secondary break.
const PrimaryBreakTypeID int64 = 1

// BreakType entity. SecretHash, when set, gates punch-in behind a credential
// check (bcrypt).
type BreakType struct {
	ID         int64
	Name       string
	Ordinal    int
	SecretHash *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPrimary reports whether the break type is the clock-in/out session type.
func (bt BreakType) IsPrimary() bool {
	return bt.ID == PrimaryBreakTypeID
}

// Session entity. Per employee at most one active primary session and at most
// one active secondary session may exist concurrently.
type Session struct {
	ID          string
	EmployeeID  string
	BreakTypeID int64
	PunchIn     time.Time
	PunchOut    *time.Time
	Date        time.Time
	IsActive    bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	BreakTypeName *string
}

// IsPrimary reports whether the session is the clock-in/out session.
func (s Session) IsPrimary() bool {
	return s.BreakTypeID == PrimaryBreakTypeID
}
