package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/store"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/clock"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
)

// RequestService drives leave requests through the approval workflow, routing
// every status transition through the Ledger inside one transaction.
type RequestService struct {
	tx       store.TxRunner
	ledger   *Ledger
	requests leave.LeaveRequestRepository
	statuses leave.ApprovalStatusRepository
	types    leave.LeaveTypeRepository
	shifts   leave.ShiftRepository
	clock    clock.Clock
}

func NewRequestService(
	tx store.TxRunner,
	ledger *Ledger,
	requests leave.LeaveRequestRepository,
	statuses leave.ApprovalStatusRepository,
	types leave.LeaveTypeRepository,
	shifts leave.ShiftRepository,
	clk clock.Clock,
) *RequestService {
	return &RequestService{
		tx:       tx,
		ledger:   ledger,
		requests: requests,
		statuses: statuses,
		types:    types,
		shifts:   shifts,
		clock:    clk,
	}
}

// resolvePendingStatus resolves "Pending" by case-insensitive name, falling
// back to the lowest-id status row when no such row exists. Only an empty
// status table is fatal.
func (r *RequestService) resolvePendingStatus(ctx context.Context) (leave.ApprovalStatus, error) {
	status, err := r.statuses.GetByName(ctx, leave.StatusPending)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, leave.ErrApprovalStatusNotFound) {
		return leave.ApprovalStatus{}, fmt.Errorf("resolve pending status: %w", err)
	}

	all, err := r.statuses.List(ctx)
	if err != nil {
		return leave.ApprovalStatus{}, fmt.Errorf("list approval statuses: %w", err)
	}
	if len(all) == 0 {
		return leave.ApprovalStatus{}, leave.ErrApprovalStatusNotFound
	}
	slog.Warn("No 'Pending' approval status configured, falling back to first status row",
		"fallback", all[0].Name,
	)
	return all[0], nil
}

// Create inserts a new request in Pending state. Creation checks the balance
// but never mutates it; only approval transitions do.
func (r *RequestService) Create(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	absence, err := time.Parse("2006-01-02", req.DateOfAbsence)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("parse date of absence: %w", err)
	}
	expectedReturn, err := time.Parse("2006-01-02", req.ExpectedDateOfReturn)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("parse expected date of return: %w", err)
	}

	if _, err := r.types.GetByID(ctx, req.LeaveTypeID); err != nil {
		return leave.LeaveRequest{}, err
	}
	if req.ShiftID != nil {
		if _, err := r.shifts.GetByID(ctx, *req.ShiftID); err != nil {
			return leave.LeaveRequest{}, err
		}
	}

	pending, err := r.resolvePendingStatus(ctx)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	var created leave.LeaveRequest
	err = r.tx.WithinTx(ctx, func(ctx context.Context) error {
		balance, freshlyCreated, err := r.ledger.GetOrCreateBalance(ctx, req.EmployeeID, req.LeaveTypeID)
		if err != nil {
			return err
		}
		if !freshlyCreated && balance.Balance <= 0 {
			return leave.ErrQuotaExceeded
		}

		requestedDays := CountWorkingDays(absence, expectedReturn)
		if float64(requestedDays) > balance.Balance {
			return leave.ErrInsufficientBalance
		}

		request := leave.LeaveRequest{
			ID:               uuid.NewString(),
			EmployeeID:       req.EmployeeID,
			LeaveTypeID:      req.LeaveTypeID,
			ShiftID:          req.ShiftID,
			DateOfAbsence:    absence,
			ExpectedReturn:   expectedReturn,
			Reason:           req.Reason,
			ApprovalStatusID: pending.ID,
			TimeOfNotice:     r.clock.Now(),
			Recommendation:   req.Recommendation,
			DocumentName:     req.DocumentName,
			DocumentURL:      req.DocumentURL,
			RequestedDays:    float64(requestedDays),
		}

		created, err = r.requests.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return created, nil
}

// Update patches a request. Requested days are recomputed from the patched
// dates, and the status transition is applied to the ledger atomically with
// the field write; an insufficient balance aborts the whole update.
func (r *RequestService) Update(ctx context.Context, requestID string, patch leave.LeaveRequestPatch) error {
	if patch.IsZero() {
		return validator.ValidationErrors{
			{Field: "body", Message: "no fields to update"},
		}
	}
	if patch.ApprovalStatusID != nil {
		if _, err := r.statuses.GetByID(ctx, *patch.ApprovalStatusID); err != nil {
			return err
		}
	}
	if patch.ShiftID != nil {
		if _, err := r.shifts.GetByID(ctx, *patch.ShiftID); err != nil {
			return err
		}
	}

	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := r.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		oldStatus, err := r.statuses.GetByID(ctx, request.ApprovalStatusID)
		if err != nil {
			return fmt.Errorf("resolve current status: %w", err)
		}

		if patch.DateOfAbsence != nil {
			request.DateOfAbsence = *patch.DateOfAbsence
		}
		if patch.ExpectedReturn != nil {
			request.ExpectedReturn = *patch.ExpectedReturn
		}
		requestedDays := CountWorkingDays(request.DateOfAbsence, request.ExpectedReturn)
		request.RequestedDays = float64(requestedDays)

		newStatus := oldStatus
		if patch.ApprovalStatusID != nil {
			newStatus, err = r.statuses.GetByID(ctx, *patch.ApprovalStatusID)
			if err != nil {
				return err
			}
			request.ApprovalStatusID = newStatus.ID
			request.StatusName = nil
		}

		err = r.ledger.ApplyTransition(ctx, request.EmployeeID, request.LeaveTypeID,
			request.RequestedDays, oldStatus.Name, newStatus.Name)
		if err != nil {
			return err
		}

		if patch.ShiftID != nil {
			request.ShiftID = patch.ShiftID
		}
		if patch.Reason != nil {
			request.Reason = *patch.Reason
		}
		if patch.Recommendation != nil {
			request.Recommendation = patch.Recommendation
		}
		if patch.DocumentName != nil {
			request.DocumentName = patch.DocumentName
		}
		if patch.DocumentURL != nil {
			request.DocumentURL = patch.DocumentURL
		}
		if patch.TimeOfNotice != nil {
			request.TimeOfNotice = *patch.TimeOfNotice
		}

		if err := r.requests.Update(ctx, request); err != nil {
			return fmt.Errorf("update leave request: %w", err)
		}
		return nil
	})
}

// Delete removes a request. When it was the last request for its
// (employee, leave type) pair the balance row goes with it.
func (r *RequestService) Delete(ctx context.Context, requestID string) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := r.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if err := r.requests.Delete(ctx, requestID); err != nil {
			return err
		}

		remaining, err := r.requests.CountByEmployeeAndType(ctx, request.EmployeeID, request.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("count remaining requests: %w", err)
		}
		if remaining == 0 {
			if err := r.ledger.balances.DeleteByEmployeeAndType(ctx, request.EmployeeID, request.LeaveTypeID); err != nil {
				return fmt.Errorf("delete orphaned balance: %w", err)
			}
			slog.Info("Removed leave balance with last request",
				"employee_id", request.EmployeeID,
				"leave_type_id", request.LeaveTypeID,
			)
		}
		return nil
	})
}

// GetByID returns one request.
func (r *RequestService) GetByID(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	return r.requests.GetByID(ctx, requestID)
}

// ListByEmployee returns the employee's requests, newest first.
func (r *RequestService) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	requests, err := r.requests.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []leave.LeaveRequest{}
	}
	return requests, nil
}

// Statistics counts the employee's requests by status. A status name that is
// not configured simply counts zero.
func (r *RequestService) Statistics(ctx context.Context, employeeID string) (leave.Statistics, error) {
	var stats leave.Statistics

	count := func(name string) (int64, error) {
		status, err := r.statuses.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, leave.ErrApprovalStatusNotFound) {
				return 0, nil
			}
			return 0, err
		}
		return r.requests.CountByEmployeeAndStatus(ctx, employeeID, status.ID)
	}

	pending, err := count(leave.StatusPending)
	if err != nil {
		return leave.Statistics{}, err
	}
	approved, err := count(leave.StatusApproved)
	if err != nil {
		return leave.Statistics{}, err
	}

	stats.PendingCount = pending
	stats.ApprovedCount = approved
	return stats, nil
}
