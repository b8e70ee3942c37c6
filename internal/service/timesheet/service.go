package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/store"
	"github.com/peopleops-io/workforce-backend-go/internal/domain/timesheet"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/clock"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/validator"
)

// Service owns the per-employee active-session set: at most one open primary
// session and at most one open secondary session. Every write runs inside a
// single transaction with the employee's active rows locked, so concurrent
// duplicate punches cannot both pass the read-decide-write sequence.
type Service struct {
	tx         store.TxRunner
	sessions   timesheet.SessionRepository
	breakTypes timesheet.BreakTypeRepository
	clock      clock.Clock
}

func NewService(tx store.TxRunner, sessions timesheet.SessionRepository, breakTypes timesheet.BreakTypeRepository, clk clock.Clock) *Service {
	return &Service{
		tx:         tx,
		sessions:   sessions,
		breakTypes: breakTypes,
		clock:      clk,
	}
}

type punchDecision int

const (
	punchOpen punchDecision = iota
	punchAlreadyActive
	punchNoPrimary
	punchBreakBusy
)

// decidePunchIn applies the state-machine rules to the current active set.
func decidePunchIn(active []timesheet.Session, breakTypeID int64) punchDecision {
	hasPrimary := false
	for _, s := range active {
		if s.BreakTypeID == breakTypeID {
			return punchAlreadyActive
		}
		if s.IsPrimary() {
			hasPrimary = true
		}
	}

	if breakTypeID == timesheet.PrimaryBreakTypeID {
		return punchOpen
	}
	if !hasPrimary {
		return punchNoPrimary
	}
	for _, s := range active {
		if !s.IsPrimary() {
			return punchBreakBusy
		}
	}
	return punchOpen
}

// PunchIn opens a session for the employee. Credential-gated break types must
// pass Authenticate before this is called; PunchIn itself performs no
// credential check.
func (s *Service) PunchIn(ctx context.Context, employeeID string, breakTypeID int64) (timesheet.PunchResult, error) {
	if _, err := s.breakTypes.GetByID(ctx, breakTypeID); err != nil {
		return timesheet.PunchResult{}, err
	}

	var result timesheet.PunchResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		active, err := s.sessions.ActiveByEmployeeForUpdate(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("load active sessions: %w", err)
		}

		switch decidePunchIn(active, breakTypeID) {
		case punchAlreadyActive:
			result = timesheet.PunchResult{Message: "Session already active", ActiveSessions: active}
			return nil
		case punchNoPrimary:
			return timesheet.ErrNoPrimarySession
		case punchBreakBusy:
			return timesheet.ErrAnotherBreakActive
		}

		now := s.clock.Now()
		session := timesheet.Session{
			ID:          uuid.NewString(),
			EmployeeID:  employeeID,
			BreakTypeID: breakTypeID,
			PunchIn:     now,
			Date:        clock.DateOf(now),
			IsActive:    true,
		}

		created, err := s.sessions.Create(ctx, session)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		result = timesheet.PunchResult{
			Message:        "Punched in",
			ActiveSessions: append(active, created),
		}
		return nil
	})
	if err != nil {
		return timesheet.PunchResult{}, err
	}
	return result, nil
}

// PunchOut closes the target session. Closing the primary session cascades:
// every other open session for the employee closes in the same transaction.
func (s *Service) PunchOut(ctx context.Context, employeeID, sessionID string) (timesheet.PunchResult, error) {
	var result timesheet.PunchResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		active, err := s.sessions.ActiveByEmployeeForUpdate(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("load active sessions: %w", err)
		}

		var target *timesheet.Session
		for i := range active {
			if active[i].ID == sessionID {
				target = &active[i]
				break
			}
		}
		if target == nil {
			session, err := s.sessions.GetByID(ctx, sessionID)
			if err != nil {
				return err
			}
			if session.EmployeeID != employeeID {
				return timesheet.ErrSessionNotFound
			}
			// Already closed: repeating a punch-out is a no-op.
			result = timesheet.PunchResult{Message: "Already punched out", ActiveSessions: active}
			return nil
		}

		now := s.clock.Now()
		if err := s.closeSession(ctx, target, now); err != nil {
			return err
		}

		if target.IsPrimary() {
			for i := range active {
				if active[i].ID == target.ID || !active[i].IsActive {
					continue
				}
				if err := s.closeSession(ctx, &active[i], now); err != nil {
					return err
				}
			}
			result = timesheet.PunchResult{Message: "All breaks terminated", ActiveSessions: []timesheet.Session{}}
			return nil
		}

		remaining := make([]timesheet.Session, 0, len(active))
		for _, session := range active {
			if session.IsActive {
				remaining = append(remaining, session)
			}
		}
		result = timesheet.PunchResult{Message: "Punched out", ActiveSessions: remaining}
		return nil
	})
	if err != nil {
		return timesheet.PunchResult{}, err
	}
	return result, nil
}

func (s *Service) closeSession(ctx context.Context, session *timesheet.Session, at time.Time) error {
	session.PunchOut = &at
	session.IsActive = false
	if err := s.sessions.Update(ctx, *session); err != nil {
		return fmt.Errorf("close session %s: %w", session.ID, err)
	}
	return nil
}

// Update corrects a historical session. Reactivating re-validates the
// at-most-one-active rule for the session's class and clears the stored
// punch-out.
func (s *Service) Update(ctx context.Context, employeeID, sessionID string, patch timesheet.SessionPatch) (timesheet.Session, error) {
	if patch.IsZero() {
		return timesheet.Session{}, validator.ValidationErrors{
			{Field: "body", Message: "no fields to update"},
		}
	}

	var updated timesheet.Session
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		session, err := s.sessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.EmployeeID != employeeID {
			return timesheet.ErrSessionNotFound
		}

		if patch.BreakTypeID != nil {
			if _, err := s.breakTypes.GetByID(ctx, *patch.BreakTypeID); err != nil {
				return err
			}
			session.BreakTypeID = *patch.BreakTypeID
			session.BreakTypeName = nil
		}
		if patch.PunchIn != nil {
			session.PunchIn = *patch.PunchIn
			session.Date = clock.DateOf(*patch.PunchIn)
		}
		if patch.PunchOut != nil {
			session.PunchOut = patch.PunchOut
		}

		reactivating := patch.IsActive != nil && *patch.IsActive && !session.IsActive
		if patch.IsActive != nil {
			session.IsActive = *patch.IsActive
		}

		if session.IsActive {
			active, err := s.sessions.ActiveByEmployeeForUpdate(ctx, employeeID)
			if err != nil {
				return fmt.Errorf("load active sessions: %w", err)
			}
			for _, other := range active {
				if other.ID == session.ID {
					continue
				}
				if other.IsPrimary() == session.IsPrimary() {
					return timesheet.ErrTooManyActiveSessions
				}
			}
		}
		if reactivating {
			session.PunchOut = nil
		}

		if err := s.sessions.Update(ctx, session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	if err != nil {
		return timesheet.Session{}, err
	}
	return updated, nil
}

// Delete removes a session record. Administrative correction only; sessions
// are otherwise retained historically.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ActiveSessions lists the employee's open sessions, optionally filtered by
// break type (0 = all).
func (s *Service) ActiveSessions(ctx context.Context, employeeID string, breakTypeID int64) ([]timesheet.Session, error) {
	sessions, err := s.sessions.ActiveByEmployee(ctx, employeeID, breakTypeID)
	if err != nil {
		return nil, fmt.Errorf("load active sessions: %w", err)
	}
	if sessions == nil {
		sessions = []timesheet.Session{}
	}
	return sessions, nil
}

// Authenticate verifies the supplied secret against the break type's stored
// hash. Unknown break types fail closed; break types without a stored hash
// are not gated and always pass.
func (s *Service) Authenticate(ctx context.Context, breakTypeID int64, secret string) (bool, error) {
	breakType, err := s.breakTypes.GetByID(ctx, breakTypeID)
	if err != nil {
		return false, err
	}
	if breakType.SecretHash == nil {
		return true, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*breakType.SecretHash), []byte(secret)); err != nil {
		return false, nil
	}
	return true, nil
}

// CloseStaleSessions punches out every session whose punch-in is older than
// maxOpen. Returns the number of sessions closed.
func (s *Service) CloseStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error) {
	closed := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := s.clock.Now()
		stale, err := s.sessions.ListOpenBefore(ctx, now.Add(-maxOpen))
		if err != nil {
			return fmt.Errorf("list stale sessions: %w", err)
		}
		for i := range stale {
			if err := s.closeSession(ctx, &stale[i], now); err != nil {
				return err
			}
			slog.Info("Auto-closed stale session",
				"session_id", stale[i].ID,
				"employee_id", stale[i].EmployeeID,
				"punch_in", stale[i].PunchIn,
			)
			closed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return closed, nil
}
