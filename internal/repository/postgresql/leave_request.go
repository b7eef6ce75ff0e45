package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, category,
			start_date, end_date, total_days,
			reason, status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5,
			$6, $7,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.Category,
		req.StartDate, req.EndDate, req.TotalDays,
		req.Reason, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return req, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.category,
			   lr.start_date, lr.end_date, lr.total_days,
			   lr.reason, lr.status, lr.decided_by, lr.decided_at, lr.decision_note,
			   lr.created_at, lr.updated_at,
			   e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1
	`

	var req leave.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.Category,
		&req.StartDate, &req.EndDate, &req.TotalDays,
		&req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.DecisionNote,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return req, nil
}

// UpdateStatus implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			decided_by = $2,
			decided_at = $3,
			decision_note = $4,
			updated_at = NOW()
		WHERE id = $5
	`

	result, err := q.Exec(ctx, query,
		req.Status, req.DecidedBy, req.DecidedAt, req.DecisionNote, req.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}

// GetByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	filter.EmployeeID = &employeeID
	return r.List(ctx, filter)
}

// List implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("lr.category = $%d", argPos))
		args = append(args, *filter.Category)
		argPos++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM lr.start_date) = $%d", argPos))
		args = append(args, *filter.Year)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM leave_requests lr WHERE " + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// SortBy and SortOrder are whitelisted by the filter's Validate.
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT lr.id, lr.employee_id, lr.category,
			   lr.start_date, lr.end_date, lr.total_days,
			   lr.reason, lr.status, lr.decided_by, lr.decided_at, lr.decision_note,
			   lr.created_at, lr.updated_at,
			   e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE %s
		ORDER BY lr.%s %s
		LIMIT $%d OFFSET $%d
	`, where, filter.SortBy, strings.ToUpper(filter.SortOrder), argPos, argPos+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var req leave.LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Category,
			&req.StartDate, &req.EndDate, &req.TotalDays,
			&req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.DecisionNote,
			&req.CreatedAt, &req.UpdatedAt,
			&req.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	return requests, total, nil
}
