package leave

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
)

// Ledger owns the per-(employee, leave type) balances. Balances are seeded
// lazily from the per-type defaults and mutated only by approval-status
// transitions; no sequence of operations may drive a balance negative.
type Ledger struct {
	balances leave.LeaveBalanceRepository
	defaults leave.LeaveBalanceDefaultRepository
	types    leave.LeaveTypeRepository
}

func NewLedger(balances leave.LeaveBalanceRepository, defaults leave.LeaveBalanceDefaultRepository, types leave.LeaveTypeRepository) *Ledger {
	return &Ledger{
		balances: balances,
		defaults: defaults,
		types:    types,
	}
}

// GetOrCreateBalance returns the pair's balance row, provisioning it from the
// leave type's default when it does not exist yet. The second return value
// reports whether the row was freshly created.
func (l *Ledger) GetOrCreateBalance(ctx context.Context, employeeID string, leaveTypeID int64) (leave.LeaveBalance, bool, error) {
	balance, err := l.balances.GetByEmployeeAndType(ctx, employeeID, leaveTypeID)
	if err == nil {
		return balance, false, nil
	}
	if err != leave.ErrBalanceNotFound {
		return leave.LeaveBalance{}, false, fmt.Errorf("load balance: %w", err)
	}

	seed, err := l.defaults.GetByLeaveTypeID(ctx, leaveTypeID)
	if err != nil {
		return leave.LeaveBalance{}, false, err
	}

	created, err := l.balances.Create(ctx, leave.LeaveBalance{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Balance:     seed.Balance,
	})
	if err != nil {
		return leave.LeaveBalance{}, false, fmt.Errorf("provision balance: %w", err)
	}

	return created, true, nil
}

// isApproved compares a status name to "Approved" case-insensitively.
func isApproved(statusName string) bool {
	return strings.EqualFold(statusName, leave.StatusApproved)
}

// ApplyTransition debits or credits the pair's balance for a status change.
// Entering Approved debits requestedDays (failing before any mutation if the
// balance cannot cover it); leaving Approved refunds; anything else is a
// no-op. Must run inside the same transaction as the request's status write.
func (l *Ledger) ApplyTransition(ctx context.Context, employeeID string, leaveTypeID int64, requestedDays float64, oldStatus, newStatus string) error {
	entering := !isApproved(oldStatus) && isApproved(newStatus)
	leaving := isApproved(oldStatus) && !isApproved(newStatus)
	if !entering && !leaving {
		return nil
	}

	// Re-read under lock: two concurrent approvals must not both pass a
	// stale check.
	balance, err := l.balances.GetByEmployeeAndTypeForUpdate(ctx, employeeID, leaveTypeID)
	if err != nil {
		if err == leave.ErrBalanceNotFound && leaving {
			// Refund onto a freshly provisioned row.
			balance, _, err = l.GetOrCreateBalance(ctx, employeeID, leaveTypeID)
		}
		if err != nil {
			return err
		}
	}

	if entering {
		if requestedDays > balance.Balance {
			return leave.ErrInsufficientBalance
		}
		return l.balances.UpdateBalance(ctx, balance.ID, balance.Balance-requestedDays)
	}
	return l.balances.UpdateBalance(ctx, balance.ID, balance.Balance+requestedDays)
}

// BalancesForEmployee is the merged read-only view: for every known leave
// type, the employee's balance if present, else the type's default, else
// zero. It never provisions or mutates anything.
func (l *Ledger) BalancesForEmployee(ctx context.Context, employeeID string) ([]leave.BalanceView, error) {
	leaveTypes, err := l.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}

	balances, err := l.balances.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	byType := make(map[int64]leave.LeaveBalance, len(balances))
	for _, b := range balances {
		byType[b.LeaveTypeID] = b
	}

	defaults, err := l.defaults.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list balance defaults: %w", err)
	}
	defaultByType := make(map[int64]float64, len(defaults))
	for _, d := range defaults {
		defaultByType[d.LeaveTypeID] = d.Balance
	}

	views := make([]leave.BalanceView, 0, len(leaveTypes))
	for _, lt := range leaveTypes {
		view := leave.BalanceView{
			LeaveTypeID:   lt.ID,
			LeaveTypeName: lt.Name,
		}
		if b, ok := byType[lt.ID]; ok {
			view.Balance = b.Balance
			view.Provisioned = true
		} else if d, ok := defaultByType[lt.ID]; ok {
			view.Balance = d
		}
		views = append(views, view)
	}
	return views, nil
}
