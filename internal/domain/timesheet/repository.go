package timesheet

import (
	"context"
	"time"
)

// SessionRepository - interface for timesheet_sessions table
type SessionRepository interface {
	Create(ctx context.Context, session Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	// ActiveByEmployee lists the employee's open sessions, oldest first,
	// optionally filtered by break type (0 = all).
	ActiveByEmployee(ctx context.Context, employeeID string, breakTypeID int64) ([]Session, error)
	// ActiveByEmployeeForUpdate is ActiveByEmployee with row locks; only
	// meaningful inside a transaction.
	ActiveByEmployeeForUpdate(ctx context.Context, employeeID string) ([]Session, error)
	Update(ctx context.Context, session Session) error
	Delete(ctx context.Context, id string) error
	// ListOpenBefore lists sessions still open whose punch-in is before cutoff.
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]Session, error)
}

// BreakTypeRepository - interface for break_types table
type BreakTypeRepository interface {
	GetByID(ctx context.Context, id int64) (BreakType, error)
	List(ctx context.Context) ([]BreakType, error)
}
