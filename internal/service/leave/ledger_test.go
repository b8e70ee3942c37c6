package leave

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
)

// fakeTxRunner serializes transactions with a mutex, mirroring the row locks
// the real runner takes on the balance and request rows.
type fakeTxRunner struct {
	mu sync.Mutex
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type balanceKey struct {
	employeeID  string
	leaveTypeID int64
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[balanceKey]leave.LeaveBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[balanceKey]leave.LeaveBalance)}
}

func (f *fakeBalanceRepo) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[balanceKey{balance.EmployeeID, balance.LeaveTypeID}] = balance
	return balance, nil
}

func (f *fakeBalanceRepo) GetByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[balanceKey{employeeID, leaveTypeID}]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return balance, nil
}

func (f *fakeBalanceRepo) GetByEmployeeAndTypeForUpdate(ctx context.Context, employeeID string, leaveTypeID int64) (leave.LeaveBalance, error) {
	return f.GetByEmployeeAndType(ctx, employeeID, leaveTypeID)
}

func (f *fakeBalanceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveBalance
	for key, balance := range f.balances {
		if key.employeeID == employeeID {
			out = append(out, balance)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeID < out[j].LeaveTypeID })
	return out, nil
}

func (f *fakeBalanceRepo) UpdateBalance(ctx context.Context, id string, balance float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, row := range f.balances {
		if row.ID == id {
			row.Balance = balance
			f.balances[key] = row
			return nil
		}
	}
	return leave.ErrBalanceNotFound
}

func (f *fakeBalanceRepo) DeleteByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.balances, balanceKey{employeeID, leaveTypeID})
	return nil
}

type fakeDefaultsRepo struct {
	defaults map[int64]leave.LeaveBalanceDefault
}

func (f *fakeDefaultsRepo) GetByLeaveTypeID(ctx context.Context, leaveTypeID int64) (leave.LeaveBalanceDefault, error) {
	d, ok := f.defaults[leaveTypeID]
	if !ok {
		return leave.LeaveBalanceDefault{}, leave.ErrMissingBalanceDefault
	}
	return d, nil
}

func (f *fakeDefaultsRepo) List(ctx context.Context) ([]leave.LeaveBalanceDefault, error) {
	out := make([]leave.LeaveBalanceDefault, 0, len(f.defaults))
	for _, d := range f.defaults {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeID < out[j].LeaveTypeID })
	return out, nil
}

type fakeLeaveTypeRepo struct {
	types map[int64]leave.LeaveType
}

func (f *fakeLeaveTypeRepo) GetByID(ctx context.Context, id int64) (leave.LeaveType, error) {
	lt, ok := f.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (f *fakeLeaveTypeRepo) List(ctx context.Context) ([]leave.LeaveType, error) {
	out := make([]leave.LeaveType, 0, len(f.types))
	for _, lt := range f.types {
		out = append(out, lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

const (
	annualLeaveID = int64(1)
	sickLeaveID   = int64(2)
	unpaidLeaveID = int64(3)
)

func newTestLedger() (*Ledger, *fakeBalanceRepo) {
	balances := newFakeBalanceRepo()
	defaults := &fakeDefaultsRepo{defaults: map[int64]leave.LeaveBalanceDefault{
		annualLeaveID: {ID: 1, LeaveTypeID: annualLeaveID, Balance: 12},
		sickLeaveID:   {ID: 2, LeaveTypeID: sickLeaveID, Balance: 5},
	}}
	types := &fakeLeaveTypeRepo{types: map[int64]leave.LeaveType{
		annualLeaveID: {ID: annualLeaveID, Name: "Annual Leave"},
		sickLeaveID:   {ID: sickLeaveID, Name: "Sick Leave"},
		unpaidLeaveID: {ID: unpaidLeaveID, Name: "Unpaid Leave"},
	}}
	return NewLedger(balances, defaults, types), balances
}

func TestLedger_GetOrCreateBalance_SeedsFromDefault(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	balance, created, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 12.0, balance.Balance)
	assert.Equal(t, "emp-1", balance.EmployeeID)

	// Second call returns the existing row
	again, created, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, balance.ID, again.ID)
}

func TestLedger_GetOrCreateBalance_MissingDefault(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	_, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", unpaidLeaveID)
	assert.ErrorIs(t, err, leave.ErrMissingBalanceDefault)
}

func TestLedger_ApplyTransition_ApprovalDebits(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()
	_, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)

	err = ledger.ApplyTransition(ctx, "emp-1", annualLeaveID, 3, leave.StatusPending, leave.StatusApproved)
	require.NoError(t, err)

	balance, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, balance.Balance)
}

func TestLedger_ApplyTransition_LeavingApprovedRefunds(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()
	_, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	require.NoError(t, ledger.ApplyTransition(ctx, "emp-1", annualLeaveID, 3, leave.StatusPending, leave.StatusApproved))

	err = ledger.ApplyTransition(ctx, "emp-1", annualLeaveID, 3, leave.StatusApproved, leave.StatusDenied)
	require.NoError(t, err)

	balance, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, balance.Balance)
}

func TestLedger_ApplyTransition_NonApprovalIsNoOp(t *testing.T) {
	ctx := context.Background()
	ledger, balances := newTestLedger()
	_, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)

	// Pending -> Denied never touches the balance
	err = ledger.ApplyTransition(ctx, "emp-1", annualLeaveID, 3, leave.StatusPending, leave.StatusDenied)
	require.NoError(t, err)

	balance, err := balances.GetByEmployeeAndType(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, balance.Balance)
}

func TestLedger_ApplyTransition_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	ledger, balances := newTestLedger()
	_, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", sickLeaveID)
	require.NoError(t, err)

	err = ledger.ApplyTransition(ctx, "emp-1", sickLeaveID, 6, leave.StatusPending, leave.StatusApproved)
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	// Balance untouched by the failed transition
	balance, err := balances.GetByEmployeeAndType(ctx, "emp-1", sickLeaveID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, balance.Balance)
}

func TestLedger_ApplyTransition_StatusNamesAreCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	ledger, balances := newTestLedger()
	_, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)

	err = ledger.ApplyTransition(ctx, "emp-1", annualLeaveID, 2, "pending", "APPROVED")
	require.NoError(t, err)

	balance, err := balances.GetByEmployeeAndType(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, balance.Balance)
}

func TestLedger_ApplyTransition_RefundProvisionsMissingRow(t *testing.T) {
	ctx := context.Background()
	ledger, balances := newTestLedger()

	// Leaving Approved with no balance row seeds one, then credits onto it
	err := ledger.ApplyTransition(ctx, "emp-1", annualLeaveID, 3, leave.StatusApproved, leave.StatusDenied)
	require.NoError(t, err)

	balance, err := balances.GetByEmployeeAndType(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, balance.Balance)
}

func TestLedger_BalancesForEmployee_MergedView(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	// Provision and spend some annual leave; sick leave stays unprovisioned
	_, _, err := ledger.GetOrCreateBalance(ctx, "emp-1", annualLeaveID)
	require.NoError(t, err)
	require.NoError(t, ledger.ApplyTransition(ctx, "emp-1", annualLeaveID, 4, leave.StatusPending, leave.StatusApproved))

	views, err := ledger.BalancesForEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "Annual Leave", views[0].LeaveTypeName)
	assert.Equal(t, 8.0, views[0].Balance)
	assert.True(t, views[0].Provisioned)

	// Falls back to the type default
	assert.Equal(t, "Sick Leave", views[1].LeaveTypeName)
	assert.Equal(t, 5.0, views[1].Balance)
	assert.False(t, views[1].Provisioned)

	// No balance and no default reads zero
	assert.Equal(t, "Unpaid Leave", views[2].LeaveTypeName)
	assert.Equal(t, 0.0, views[2].Balance)
	assert.False(t, views[2].Provisioned)
}

func TestLedger_BalancesForEmployee_NeverProvisions(t *testing.T) {
	ctx := context.Background()
	ledger, balances := newTestLedger()

	_, err := ledger.BalancesForEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, balances.balances)
}
