package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, balance,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.ID, balance.EmployeeID, balance.LeaveTypeID, balance.Balance,
	).Scan(&balance.CreatedAt, &balance.UpdatedAt)

	if err != nil {
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) GetByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) (leave.LeaveBalance, error) {
	return r.getByEmployeeAndType(ctx, employeeID, leaveTypeID, false)
}

func (r *leaveBalanceRepositoryImpl) GetByEmployeeAndTypeForUpdate(ctx context.Context, employeeID string, leaveTypeID int64) (leave.LeaveBalance, error) {
	return r.getByEmployeeAndType(ctx, employeeID, leaveTypeID, true)
}

func (r *leaveBalanceRepositoryImpl) getByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64, forUpdate bool) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, balance, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID).Scan(
		&b.ID,
		&b.EmployeeID,
		&b.LeaveTypeID,
		&b.Balance,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}

	return b, nil
}

func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, balance, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		var b leave.LeaveBalance
		err := rows.Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Balance, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

func (r *leaveBalanceRepositoryImpl) UpdateBalance(ctx context.Context, id string, balance float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET balance = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id, balance)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) DeleteByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2
	`

	_, err := q.Exec(ctx, query, employeeID, leaveTypeID)
	return err
}
