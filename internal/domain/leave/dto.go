package leave

import (
	"time"

	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
)

// CreateLeaveRequestRequest carries a new leave request. EmployeeID is the
// explicit principal filled in by the handler, never an ambient lookup.
type CreateLeaveRequestRequest struct {
	EmployeeID           string  `json:"-"`
	LeaveTypeID          int64   `json:"leave_type_id"`
	ShiftID              *int64  `json:"shift_id"`
	DateOfAbsence        string  `json:"date_of_absence"`
	ExpectedDateOfReturn string  `json:"expected_date_of_return"`
	Reason               string  `json:"reason"`
	Recommendation       *string `json:"recommendation"`
	DocumentName         *string `json:"document_name"`
	DocumentURL          *string `json:"document_url"`
}

func (r CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.LeaveTypeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	absence, okA := validator.IsValidDate(r.DateOfAbsence)
	if !okA {
		errs = append(errs, validator.ValidationError{Field: "date_of_absence", Message: "must be a date in YYYY-MM-DD format"})
	}
	ret, okR := validator.IsValidDate(r.ExpectedDateOfReturn)
	if !okR {
		errs = append(errs, validator.ValidationError{Field: "expected_date_of_return", Message: "must be a date in YYYY-MM-DD format"})
	}
	if okA && okR && !ret.After(absence) {
		errs = append(errs, validator.ValidationError{Field: "expected_date_of_return", Message: "must be after date_of_absence"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LeaveRequestPatch lists the mutable fields of a leave request. Nil means
// "leave unchanged"; presence is explicit rather than inferred from empty
// values.
type LeaveRequestPatch struct {
	DateOfAbsence    *time.Time
	ExpectedReturn   *time.Time
	ShiftID          *int64
	Reason           *string
	ApprovalStatusID *int64
	Recommendation   *string
	DocumentName     *string
	DocumentURL      *string
	TimeOfNotice     *time.Time
}

// IsZero reports whether the patch changes nothing.
func (p LeaveRequestPatch) IsZero() bool {
	return p.DateOfAbsence == nil && p.ExpectedReturn == nil && p.ShiftID == nil &&
		p.Reason == nil && p.ApprovalStatusID == nil && p.Recommendation == nil &&
		p.DocumentName == nil && p.DocumentURL == nil && p.TimeOfNotice == nil
}
