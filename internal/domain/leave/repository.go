package leave

import "context"

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id int64) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

// ApprovalStatusRepository - interface for approval_statuses table
type ApprovalStatusRepository interface {
	GetByID(ctx context.Context, id int64) (ApprovalStatus, error)
	// GetByName resolves a status by case-insensitive name.
	GetByName(ctx context.Context, name string) (ApprovalStatus, error)
	// List returns all statuses ordered by id ascending.
	List(ctx context.Context) ([]ApprovalStatus, error)
}

// ShiftRepository - interface for shifts table
type ShiftRepository interface {
	GetByID(ctx context.Context, id int64) (Shift, error)
	List(ctx context.Context) ([]Shift, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) (LeaveBalance, error)
	// GetByEmployeeAndTypeForUpdate locks the balance row for the duration of
	// the surrounding transaction.
	GetByEmployeeAndTypeForUpdate(ctx context.Context, employeeID string, leaveTypeID int64) (LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error)
	UpdateBalance(ctx context.Context, id string, balance float64) error
	DeleteByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) error
}

// LeaveBalanceDefaultRepository - interface for leave_balance_defaults table
type LeaveBalanceDefaultRepository interface {
	GetByLeaveTypeID(ctx context.Context, leaveTypeID int64) (LeaveBalanceDefault, error)
	List(ctx context.Context) ([]LeaveBalanceDefault, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the request row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	Update(ctx context.Context, request LeaveRequest) error
	Delete(ctx context.Context, id string) error
	CountByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) (int64, error)
	CountByEmployeeAndStatus(ctx context.Context, employeeID string, statusID int64) (int64, error)
}
