package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/timesheet"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
)

type breakTypeRepositoryImpl struct {
	db *database.DB
}

func NewBreakTypeRepository(db *database.DB) timesheet.BreakTypeRepository {
	return &breakTypeRepositoryImpl{db: db}
}

func (r *breakTypeRepositoryImpl) GetByID(ctx context.Context, id int64) (timesheet.BreakType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, ordinal, secret_hash, created_at, updated_at
		FROM break_types
		WHERE id = $1
	`

	var bt timesheet.BreakType
	err := q.QueryRow(ctx, query, id).Scan(
		&bt.ID,
		&bt.Name,
		&bt.Ordinal,
		&bt.SecretHash,
		&bt.CreatedAt,
		&bt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.BreakType{}, timesheet.ErrBreakTypeNotFound
		}
		return timesheet.BreakType{}, err
	}

	return bt, nil
}

func (r *breakTypeRepositoryImpl) List(ctx context.Context) ([]timesheet.BreakType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, ordinal, secret_hash, created_at, updated_at
		FROM break_types
		ORDER BY ordinal, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakTypes []timesheet.BreakType
	for rows.Next() {
		var bt timesheet.BreakType
		if err := rows.Scan(&bt.ID, &bt.Name, &bt.Ordinal, &bt.SecretHash, &bt.CreatedAt, &bt.UpdatedAt); err != nil {
			return nil, err
		}
		breakTypes = append(breakTypes, bt)
	}

	return breakTypes, rows.Err()
}
