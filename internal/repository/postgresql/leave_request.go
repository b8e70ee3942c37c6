package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/leave"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, shift_id,
			date_of_absence, expected_date_of_return, reason,
			approval_status_id, time_of_notice, recommendation,
			document_name, document_url, requested_days,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveTypeID, request.ShiftID,
		request.DateOfAbsence, request.ExpectedReturn, request.Reason,
		request.ApprovalStatusID, request.TimeOfNotice, request.Recommendation,
		request.DocumentName, request.DocumentURL, request.RequestedDays,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type_id, lr.shift_id,
	lr.date_of_absence, lr.expected_date_of_return, lr.reason,
	lr.approval_status_id, lr.time_of_notice, lr.recommendation,
	lr.document_name, lr.document_url, lr.requested_days,
	lr.created_at, lr.updated_at, lt.name, st.name
`

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, false)
}

func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, true)
}

func (r *leaveRequestRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN leave_types lt ON lr.leave_type_id = lt.id
		INNER JOIN approval_statuses st ON lr.approval_status_id = st.id
		WHERE lr.id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE OF lr`
	}

	var lr leave.LeaveRequest
	err := scanLeaveRequest(q.QueryRow(ctx, query, id), &lr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return lr, nil
}

func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN leave_types lt ON lr.leave_type_id = lt.id
		INNER JOIN approval_statuses st ON lr.approval_status_id = st.id
		WHERE lr.employee_id = $1
		ORDER BY lr.time_of_notice DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		if err := scanLeaveRequest(rows, &lr); err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}

	return requests, rows.Err()
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type_id = $2,
			shift_id = $3,
			date_of_absence = $4,
			expected_date_of_return = $5,
			reason = $6,
			approval_status_id = $7,
			time_of_notice = $8,
			recommendation = $9,
			document_name = $10,
			document_url = $11,
			requested_days = $12,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		request.ID, request.LeaveTypeID, request.ShiftID,
		request.DateOfAbsence, request.ExpectedReturn, request.Reason,
		request.ApprovalStatusID, request.TimeOfNotice, request.Recommendation,
		request.DocumentName, request.DocumentURL, request.RequestedDays,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM leave_requests
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) CountByEmployeeAndType(ctx context.Context, employeeID string, leaveTypeID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE employee_id = $1 AND leave_type_id = $2
	`

	var count int64
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID).Scan(&count)
	return count, err
}

func (r *leaveRequestRepositoryImpl) CountByEmployeeAndStatus(ctx context.Context, employeeID string, statusID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE employee_id = $1 AND approval_status_id = $2
	`

	var count int64
	err := q.QueryRow(ctx, query, employeeID, statusID).Scan(&count)
	return count, err
}

func scanLeaveRequest(row pgx.Row, lr *leave.LeaveRequest) error {
	return row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveTypeID,
		&lr.ShiftID,
		&lr.DateOfAbsence,
		&lr.ExpectedReturn,
		&lr.Reason,
		&lr.ApprovalStatusID,
		&lr.TimeOfNotice,
		&lr.Recommendation,
		&lr.DocumentName,
		&lr.DocumentURL,
		&lr.RequestedDays,
		&lr.CreatedAt,
		&lr.UpdatedAt,
		&lr.LeaveTypeName,
		&lr.StatusName,
	)
}
