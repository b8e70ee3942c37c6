package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/timesheet"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) timesheet.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

func (r *sessionRepositoryImpl) Create(ctx context.Context, session timesheet.Session) (timesheet.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheet_sessions (
			id, employee_id, break_type_id,
			punch_in, punch_out, date, is_active,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID, session.EmployeeID, session.BreakTypeID,
		session.PunchIn, session.PunchOut, session.Date, session.IsActive,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return timesheet.Session{}, err
	}

	return session, nil
}

const sessionColumns = `
	s.id, s.employee_id, s.break_type_id,
	s.punch_in, s.punch_out, s.date, s.is_active,
	s.created_at, s.updated_at, bt.name
`

func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM timesheet_sessions s
		INNER JOIN break_types bt ON s.break_type_id = bt.id
		WHERE s.id = $1
	`

	var s timesheet.Session
	err := scanSession(q.QueryRow(ctx, query, id), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Session{}, timesheet.ErrSessionNotFound
		}
		return timesheet.Session{}, err
	}

	return s, nil
}

func (r *sessionRepositoryImpl) ActiveByEmployee(ctx context.Context, employeeID string, breakTypeID int64) ([]timesheet.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM timesheet_sessions s
		INNER JOIN break_types bt ON s.break_type_id = bt.id
		WHERE s.employee_id = $1 AND s.is_active = TRUE
		  AND ($2 = 0 OR s.break_type_id = $2)
		ORDER BY s.punch_in
	`

	rows, err := q.Query(ctx, query, employeeID, breakTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *sessionRepositoryImpl) ActiveByEmployeeForUpdate(ctx context.Context, employeeID string) ([]timesheet.Session, error) {
	q := GetQuerier(ctx, r.db)

	// FOR UPDATE OF s: lock only the session rows, not the break type rows.
	query := `
		SELECT ` + sessionColumns + `
		FROM timesheet_sessions s
		INNER JOIN break_types bt ON s.break_type_id = bt.id
		WHERE s.employee_id = $1 AND s.is_active = TRUE
		ORDER BY s.punch_in
		FOR UPDATE OF s
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *sessionRepositoryImpl) Update(ctx context.Context, session timesheet.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheet_sessions
		SET break_type_id = $2,
			punch_in = $3,
			punch_out = $4,
			date = $5,
			is_active = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		session.ID, session.BreakTypeID,
		session.PunchIn, session.PunchOut, session.Date, session.IsActive,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return timesheet.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM timesheet_sessions
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return timesheet.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepositoryImpl) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]timesheet.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM timesheet_sessions s
		INNER JOIN break_types bt ON s.break_type_id = bt.id
		WHERE s.is_active = TRUE AND s.punch_in < $1
		ORDER BY s.punch_in
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func scanSession(row pgx.Row, s *timesheet.Session) error {
	return row.Scan(
		&s.ID,
		&s.EmployeeID,
		&s.BreakTypeID,
		&s.PunchIn,
		&s.PunchOut,
		&s.Date,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.BreakTypeName,
	)
}

func collectSessions(rows pgx.Rows) ([]timesheet.Session, error) {
	var sessions []timesheet.Session
	for rows.Next() {
		var s timesheet.Session
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
