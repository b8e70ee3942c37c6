package leave

import "errors"

var (
	ErrLeaveRequestNotFound   = errors.New("Leave request not found")
	ErrLeaveTypeNotFound      = errors.New("Leave type not found")
	ErrShiftNotFound          = errors.New("Shift not found")
	ErrApprovalStatusNotFound = errors.New("Approval status not found")

	// ErrBalanceNotFound: no balance row exists yet for the pair; the ledger
	// provisions one lazily.
	ErrBalanceNotFound = errors.New("Leave balance not found")

	// ErrInsufficientBalance: requested days exceed the available balance.
	ErrInsufficientBalance = errors.New("Insufficient leave balance")

	// ErrQuotaExceeded: the employee's existing balance for the leave type is
	// already exhausted.
	ErrQuotaExceeded = errors.New("Leave balance exhausted for this leave type")

	// ErrMissingBalanceDefault: no seed balance is configured for the leave
	// type, so a balance row cannot be provisioned.
	ErrMissingBalanceDefault = errors.New("No default balance configured for leave type")
)
