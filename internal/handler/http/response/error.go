package response

import (
	"errors"
	"net/http"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/auth"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/store"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/timesheet"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Employee directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")
	case errors.Is(err, employee.ErrVisibilityDenied):
		Forbidden(w, "Not allowed to view this employee's records")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, timesheet.ErrBreakTypeNotFound):
		NotFound(w, "Break type not found")
	case errors.Is(err, timesheet.ErrNoPrimarySession):
		BadRequest(w, "Clock in before starting a break", nil)
	case errors.Is(err, timesheet.ErrAnotherBreakActive):
		Conflict(w, "Another break is active; close it first")
	case errors.Is(err, timesheet.ErrTooManyActiveSessions):
		Conflict(w, "Another session of this kind is already active")
	case errors.Is(err, timesheet.ErrInvalidCredential):
		Forbidden(w, "Invalid break type credential")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		UnprocessableEntity(w, "INSUFFICIENT_BALANCE", "Insufficient leave balance")
	case errors.Is(err, leave.ErrQuotaExceeded):
		UnprocessableEntity(w, "QUOTA_EXCEEDED", "Leave balance exhausted for this leave type")
	case errors.Is(err, leave.ErrMissingBalanceDefault):
		InternalServerError(w, "No default balance configured for leave type")
	case errors.Is(err, leave.ErrApprovalStatusNotFound):
		InternalServerError(w, "Approval status configuration is incomplete")

	// Store errors
	case errors.Is(err, store.ErrTxConflict):
		Conflict(w, "Operation lost a write race, please retry")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
