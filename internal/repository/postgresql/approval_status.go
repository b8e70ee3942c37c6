package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
)

type approvalStatusRepositoryImpl struct {
	db *database.DB
}

func NewApprovalStatusRepository(db *database.DB) leave.ApprovalStatusRepository {
	return &approvalStatusRepositoryImpl{db: db}
}

func (r *approvalStatusRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.ApprovalStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name
		FROM approval_statuses
		WHERE id = $1
	`

	var st leave.ApprovalStatus
	err := q.QueryRow(ctx, query, id).Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ApprovalStatus{}, leave.ErrApprovalStatusNotFound
		}
		return leave.ApprovalStatus{}, err
	}

	return st, nil
}

func (r *approvalStatusRepositoryImpl) GetByName(ctx context.Context, name string) (leave.ApprovalStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name
		FROM approval_statuses
		WHERE LOWER(name) = LOWER($1)
	`

	var st leave.ApprovalStatus
	err := q.QueryRow(ctx, query, name).Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ApprovalStatus{}, leave.ErrApprovalStatusNotFound
		}
		return leave.ApprovalStatus{}, err
	}

	return st, nil
}

func (r *approvalStatusRepositoryImpl) List(ctx context.Context) ([]leave.ApprovalStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name
		FROM approval_statuses
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []leave.ApprovalStatus
	for rows.Next() {
		var st leave.ApprovalStatus
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}

	return statuses, rows.Err()
}
