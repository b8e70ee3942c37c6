package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) leave.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time
		FROM shifts
		WHERE id = $1
	`

	var s leave.Shift
	err := q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Shift{}, leave.ErrShiftNotFound
		}
		return leave.Shift{}, err
	}

	return s, nil
}

func (r *shiftRepositoryImpl) List(ctx context.Context) ([]leave.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time
		FROM shifts
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []leave.Shift
	for rows.Next() {
		var s leave.Shift
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}
