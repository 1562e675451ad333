package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jobhive/employer-backend-go/internal/domain/leave"
	"github.com/jobhive/employer-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, company_id, leave_type,
			start_date, end_date, total_days,
			reason, status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			$7, $8,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.CompanyID, request.LeaveType,
		request.StartDate, request.EndDate, request.TotalDays,
		request.Reason, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.company_id, lr.leave_type,
			   lr.start_date, lr.end_date, lr.total_days,
			   lr.reason, lr.status, lr.approver_id, lr.decision_note, lr.decided_at,
			   lr.created_at, lr.updated_at,
			   e.full_name
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1 AND lr.company_id = $2
	`

	var request leave.LeaveRequest
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&request.ID, &request.EmployeeID, &request.CompanyID, &request.LeaveType,
		&request.StartDate, &request.EndDate, &request.TotalDays,
		&request.Reason, &request.Status, &request.ApproverID, &request.DecisionNote, &request.DecidedAt,
		&request.CreatedAt, &request.UpdatedAt,
		&request.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("select leave request: %w", err)
	}

	return request, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, companyID string, filter leave.Filter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := `WHERE lr.company_id = $1`
	args := []any{companyID}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND lr.employee_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND lr.status = $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests lr `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT lr.id, lr.employee_id, lr.company_id, lr.leave_type,
			   lr.start_date, lr.end_date, lr.total_days,
			   lr.reason, lr.status, lr.approver_id, lr.decision_note, lr.decided_at,
			   lr.created_at, lr.updated_at,
			   e.full_name
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		%s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var request leave.LeaveRequest
		err := rows.Scan(
			&request.ID, &request.EmployeeID, &request.CompanyID, &request.LeaveType,
			&request.StartDate, &request.EndDate, &request.TotalDays,
			&request.Reason, &request.Status, &request.ApproverID, &request.DecisionNote, &request.DecidedAt,
			&request.CreatedAt, &request.UpdatedAt,
			&request.EmployeeName,
		)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}

	return requests, total, rows.Err()
}

// UpdateDecision implements leave.LeaveRequestRepository. The status predicate
// makes the pending -> decided transition race-safe: of two concurrent
// approvers, exactly one update lands.
func (r *leaveRequestRepositoryImpl) UpdateDecision(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status = $1,
			approver_id = $2,
			decision_note = $3,
			decided_at = $4,
			updated_at = NOW()
		WHERE id = $5 AND company_id = $6 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query,
		request.Status, request.ApproverID, request.DecisionNote, request.DecidedAt,
		request.ID, request.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("update leave decision: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return leave.ErrAlreadyDecided
	}

	return nil
}
