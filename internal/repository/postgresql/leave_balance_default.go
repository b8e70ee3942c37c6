package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
)

type leaveBalanceDefaultRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceDefaultRepository(db *database.DB) leave.LeaveBalanceDefaultRepository {
	return &leaveBalanceDefaultRepositoryImpl{db: db}
}

func (r *leaveBalanceDefaultRepositoryImpl) GetByLeaveTypeID(ctx context.Context, leaveTypeID int64) (leave.LeaveBalanceDefault, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, leave_type_id, balance
		FROM leave_balance_defaults
		WHERE leave_type_id = $1
	`

	var d leave.LeaveBalanceDefault
	err := q.QueryRow(ctx, query, leaveTypeID).Scan(&d.ID, &d.LeaveTypeID, &d.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalanceDefault{}, leave.ErrMissingBalanceDefault
		}
		return leave.LeaveBalanceDefault{}, err
	}

	return d, nil
}

func (r *leaveBalanceDefaultRepositoryImpl) List(ctx context.Context) ([]leave.LeaveBalanceDefault, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, leave_type_id, balance
		FROM leave_balance_defaults
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defaults []leave.LeaveBalanceDefault
	for rows.Next() {
		var d leave.LeaveBalanceDefault
		if err := rows.Scan(&d.ID, &d.LeaveTypeID, &d.Balance); err != nil {
			return nil, err
		}
		defaults = append(defaults, d)
	}

	return defaults, rows.Err()
}
