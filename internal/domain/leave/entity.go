package leave

import "time"

// LeaveType entity - the denomination of a balance and of a request.
type LeaveType struct {
	ID   int64
	Name string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApprovalStatus entity. Statuses are resolved by case-insensitive name at
// runtime, never by a fixed id.
type ApprovalStatus struct {
	ID   int64
	Name string
}

// Well-known approval status names.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDenied   = "Denied"
)

// Shift entity (reference data).
type Shift struct {
	ID        int64
	Name      string
	StartTime string
	EndTime   string
}

// LeaveBalance entity, keyed by (employee, leave type). The balance is never
// driven negative by an approval transition.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID int64
	Balance     float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveBalanceDefault - per-leave-type seed balance used only when a balance
// row is lazily provisioned on first use.
type LeaveBalanceDefault struct {
	ID          int64
	LeaveTypeID int64
	Balance     float64
}

// LeaveRequest entity.
type LeaveRequest struct {
	ID               string
	EmployeeID       string
	LeaveTypeID      int64
	ShiftID          *int64
	DateOfAbsence    time.Time
	ExpectedReturn   time.Time
	Reason           string
	ApprovalStatusID int64
	TimeOfNotice     time.Time
	Recommendation   *string
	DocumentName     *string
	DocumentURL      *string
	RequestedDays    float64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	StatusName    *string
	EmployeeName  *string
}

// BalanceView is one row of the merged per-leave-type display: the employee's
// balance if present, else the type's default, else zero.
type BalanceView struct {
	LeaveTypeID   int64
	LeaveTypeName string
	Balance       float64
	Provisioned   bool
}

// Statistics - request counts by status for one employee.
type Statistics struct {
	PendingCount  int64
	ApprovedCount int64
}
