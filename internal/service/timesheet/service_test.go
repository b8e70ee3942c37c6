package timesheet

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/timesheet"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/clock"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
)

// fakeTxRunner serializes transactions with a mutex, mirroring the row locks
// the real runner takes on the employee's active sessions.
type fakeTxRunner struct {
	mu sync.Mutex
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]timesheet.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]timesheet.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session timesheet.Session) (timesheet.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (timesheet.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return timesheet.Session{}, timesheet.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) ActiveByEmployee(ctx context.Context, employeeID string, breakTypeID int64) ([]timesheet.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []timesheet.Session
	for _, s := range f.sessions {
		if s.EmployeeID != employeeID || !s.IsActive {
			continue
		}
		if breakTypeID != 0 && s.BreakTypeID != breakTypeID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PunchIn.Before(out[j].PunchIn) })
	return out, nil
}

func (f *fakeSessionRepo) ActiveByEmployeeForUpdate(ctx context.Context, employeeID string) ([]timesheet.Session, error) {
	return f.ActiveByEmployee(ctx, employeeID, 0)
}

func (f *fakeSessionRepo) Update(ctx context.Context, session timesheet.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[session.ID]; !ok {
		return timesheet.ErrSessionNotFound
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return timesheet.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]timesheet.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []timesheet.Session
	for _, s := range f.sessions {
		if s.IsActive && s.PunchIn.Before(cutoff) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PunchIn.Before(out[j].PunchIn) })
	return out, nil
}

type fakeBreakTypeRepo struct {
	breakTypes map[int64]timesheet.BreakType
}

func (f *fakeBreakTypeRepo) GetByID(ctx context.Context, id int64) (timesheet.BreakType, error) {
	bt, ok := f.breakTypes[id]
	if !ok {
		return timesheet.BreakType{}, timesheet.ErrBreakTypeNotFound
	}
	return bt, nil
}

func (f *fakeBreakTypeRepo) List(ctx context.Context) ([]timesheet.BreakType, error) {
	out := make([]timesheet.BreakType, 0, len(f.breakTypes))
	for _, bt := range f.breakTypes {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

const (
	workBreakID  = timesheet.PrimaryBreakTypeID
	lunchBreakID = int64(2)
	gatedBreakID = int64(3)
)

var testNow = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeSessionRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	secret := string(hash)

	sessions := newFakeSessionRepo()
	breakTypes := &fakeBreakTypeRepo{breakTypes: map[int64]timesheet.BreakType{
		workBreakID:  {ID: workBreakID, Name: "Work"},
		lunchBreakID: {ID: lunchBreakID, Name: "Lunch"},
		gatedBreakID: {ID: gatedBreakID, Name: "Offsite", SecretHash: &secret},
	}}
	return NewService(&fakeTxRunner{}, sessions, breakTypes, clock.Fixed(testNow)), sessions
}

func TestService_PunchIn_PrimaryThenSecondary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	// Clock in
	result, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	assert.Equal(t, "Punched in", result.Message)
	require.Len(t, result.ActiveSessions, 1)
	assert.Equal(t, workBreakID, result.ActiveSessions[0].BreakTypeID)
	assert.True(t, result.ActiveSessions[0].IsActive)
	assert.Equal(t, clock.DateOf(testNow), result.ActiveSessions[0].Date)

	// Start a break on top of the open work session
	result, err = svc.PunchIn(ctx, "emp-1", lunchBreakID)
	require.NoError(t, err)
	assert.Equal(t, "Punched in", result.Message)
	assert.Len(t, result.ActiveSessions, 2)
}

func TestService_PunchIn_DuplicateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)

	second, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	assert.Equal(t, "Session already active", second.Message)
	require.Len(t, second.ActiveSessions, 1)
	assert.Equal(t, first.ActiveSessions[0].ID, second.ActiveSessions[0].ID)
}

func TestService_PunchIn_SecondaryWithoutPrimary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.PunchIn(ctx, "emp-1", lunchBreakID)
	assert.ErrorIs(t, err, timesheet.ErrNoPrimarySession)
}

func TestService_PunchIn_SecondSecondaryRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	_, err = svc.PunchIn(ctx, "emp-1", lunchBreakID)
	require.NoError(t, err)

	_, err = svc.PunchIn(ctx, "emp-1", gatedBreakID)
	assert.ErrorIs(t, err, timesheet.ErrAnotherBreakActive)
}

func TestService_PunchIn_UnknownBreakType(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.PunchIn(ctx, "emp-1", 99)
	assert.ErrorIs(t, err, timesheet.ErrBreakTypeNotFound)
}

func TestService_PunchIn_EmployeesAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)

	result, err := svc.PunchIn(ctx, "emp-2", workBreakID)
	require.NoError(t, err)
	assert.Equal(t, "Punched in", result.Message)
	assert.Len(t, result.ActiveSessions, 1)
}

func TestService_PunchOut_Secondary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	breakResult, err := svc.PunchIn(ctx, "emp-1", lunchBreakID)
	require.NoError(t, err)

	var breakSession timesheet.Session
	for _, s := range breakResult.ActiveSessions {
		if s.BreakTypeID == lunchBreakID {
			breakSession = s
		}
	}
	require.NotEmpty(t, breakSession.ID)

	result, err := svc.PunchOut(ctx, "emp-1", breakSession.ID)
	require.NoError(t, err)
	assert.Equal(t, "Punched out", result.Message)
	require.Len(t, result.ActiveSessions, 1)
	assert.Equal(t, workBreakID, result.ActiveSessions[0].BreakTypeID)
}

func TestService_PunchOut_PrimaryCascades(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	primary, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	_, err = svc.PunchIn(ctx, "emp-1", lunchBreakID)
	require.NoError(t, err)

	result, err := svc.PunchOut(ctx, "emp-1", primary.ActiveSessions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "All breaks terminated", result.Message)
	assert.Empty(t, result.ActiveSessions)

	// Both rows are closed with a punch-out timestamp
	remaining, err := sessions.ActiveByEmployee(ctx, "emp-1", 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	for _, s := range sessions.sessions {
		require.NotNil(t, s.PunchOut)
		assert.False(t, s.IsActive)
	}
}

func TestService_PunchOut_RepeatIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	punched, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	sessionID := punched.ActiveSessions[0].ID

	_, err = svc.PunchOut(ctx, "emp-1", sessionID)
	require.NoError(t, err)

	result, err := svc.PunchOut(ctx, "emp-1", sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Already punched out", result.Message)
	assert.Empty(t, result.ActiveSessions)
}

func TestService_PunchOut_OtherEmployeesSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	punched, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)

	_, err = svc.PunchOut(ctx, "emp-2", punched.ActiveSessions[0].ID)
	assert.ErrorIs(t, err, timesheet.ErrSessionNotFound)
}

func TestService_PunchOut_CascadeThenPunchInAgain(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	primary, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	_, err = svc.PunchIn(ctx, "emp-1", lunchBreakID)
	require.NoError(t, err)
	_, err = svc.PunchOut(ctx, "emp-1", primary.ActiveSessions[0].ID)
	require.NoError(t, err)

	// A fresh day can start immediately after the cascade
	result, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	assert.Equal(t, "Punched in", result.Message)
	assert.Len(t, result.ActiveSessions, 1)
}

func TestService_PunchIn_Concurrent(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	const attempts = 8
	results := make([]string, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.PunchIn(ctx, "emp-1", workBreakID)
			if !assert.NoError(t, err) {
				return
			}
			results[i] = result.Message
		}(i)
	}
	wg.Wait()

	created := 0
	for _, msg := range results {
		if msg == "Punched in" {
			created++
		} else {
			assert.Equal(t, "Session already active", msg)
		}
	}
	assert.Equal(t, 1, created)
	assert.Len(t, sessions.sessions, 1)
}

func TestService_Update_ReactivationReValidates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	firstID := first.ActiveSessions[0].ID
	_, err = svc.PunchOut(ctx, "emp-1", firstID)
	require.NoError(t, err)

	second, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	require.Len(t, second.ActiveSessions, 1)

	// Reopening the first primary would break the one-active-primary rule
	active := true
	_, err = svc.Update(ctx, "emp-1", firstID, timesheet.SessionPatch{IsActive: &active})
	assert.ErrorIs(t, err, timesheet.ErrTooManyActiveSessions)
}

func TestService_Update_ReactivationClearsPunchOut(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	punched, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	sessionID := punched.ActiveSessions[0].ID
	_, err = svc.PunchOut(ctx, "emp-1", sessionID)
	require.NoError(t, err)

	active := true
	updated, err := svc.Update(ctx, "emp-1", sessionID, timesheet.SessionPatch{IsActive: &active})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Nil(t, updated.PunchOut)
}

func TestService_Update_EmptyPatchRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	punched, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "emp-1", punched.ActiveSessions[0].ID, timesheet.SessionPatch{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestService_Update_CorrectsTimestamps(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	punched, err := svc.PunchIn(ctx, "emp-1", workBreakID)
	require.NoError(t, err)
	sessionID := punched.ActiveSessions[0].ID

	newPunchIn := testNow.Add(-2 * time.Hour)
	updated, err := svc.Update(ctx, "emp-1", sessionID, timesheet.SessionPatch{PunchIn: &newPunchIn})
	require.NoError(t, err)
	assert.Equal(t, newPunchIn, updated.PunchIn)
	assert.Equal(t, clock.DateOf(newPunchIn), updated.Date)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("ungated break type always passes", func(t *testing.T) {
		ok, err := svc.Authenticate(ctx, workBreakID, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("gated break type with correct secret", func(t *testing.T) {
		ok, err := svc.Authenticate(ctx, gatedBreakID, "hunter2")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("gated break type with wrong secret", func(t *testing.T) {
		ok, err := svc.Authenticate(ctx, gatedBreakID, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown break type fails closed", func(t *testing.T) {
		ok, err := svc.Authenticate(ctx, 99, "hunter2")
		assert.ErrorIs(t, err, timesheet.ErrBreakTypeNotFound)
		assert.False(t, ok)
	})
}

func TestService_CloseStaleSessions(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	stale := timesheet.Session{
		ID:          "stale",
		EmployeeID:  "emp-1",
		BreakTypeID: workBreakID,
		PunchIn:     testNow.Add(-20 * time.Hour),
		Date:        clock.DateOf(testNow.Add(-20 * time.Hour)),
		IsActive:    true,
	}
	fresh := timesheet.Session{
		ID:          "fresh",
		EmployeeID:  "emp-2",
		BreakTypeID: workBreakID,
		PunchIn:     testNow.Add(-2 * time.Hour),
		Date:        clock.DateOf(testNow),
		IsActive:    true,
	}
	_, err := sessions.Create(ctx, stale)
	require.NoError(t, err)
	_, err = sessions.Create(ctx, fresh)
	require.NoError(t, err)

	closed, err := svc.CloseStaleSessions(ctx, 16*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	got, err := sessions.GetByID(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.PunchOut)

	got, err = sessions.GetByID(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDecidePunchIn(t *testing.T) {
	primary := timesheet.Session{ID: "p", BreakTypeID: workBreakID, IsActive: true}
	secondary := timesheet.Session{ID: "s", BreakTypeID: lunchBreakID, IsActive: true}

	tests := []struct {
		name        string
		active      []timesheet.Session
		breakTypeID int64
		want        punchDecision
	}{
		{"primary on empty set", nil, workBreakID, punchOpen},
		{"secondary on empty set", nil, lunchBreakID, punchNoPrimary},
		{"duplicate primary", []timesheet.Session{primary}, workBreakID, punchAlreadyActive},
		{"secondary with primary open", []timesheet.Session{primary}, lunchBreakID, punchOpen},
		{"duplicate secondary", []timesheet.Session{primary, secondary}, lunchBreakID, punchAlreadyActive},
		{"second distinct secondary", []timesheet.Session{primary, secondary}, gatedBreakID, punchBreakBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decidePunchIn(tt.active, tt.breakTypeID))
		})
	}
}
