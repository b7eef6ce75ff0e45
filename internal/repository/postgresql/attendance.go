package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, work_location,
			clock_in_time, clock_out_time, total_hours,
			status, decided_by, decided_at,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.EmployeeID, day.Date, day.WorkLocation,
		day.ClockIn, day.ClockOut, day.TotalHours,
		day.Status, day.DecidedBy, day.DecidedAt,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		return attendance.AttendanceDay{}, err
	}

	return day, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.work_location,
			   a.clock_in_time, a.clock_out_time, a.total_hours,
			   a.status, a.decided_by, a.decided_at,
			   a.created_at, a.updated_at,
			   e.full_name AS employee_name
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.id = $1
	`

	var day attendance.AttendanceDay
	err := q.QueryRow(ctx, query, id).Scan(
		&day.ID, &day.EmployeeID, &day.Date, &day.WorkLocation,
		&day.ClockIn, &day.ClockOut, &day.TotalHours,
		&day.Status, &day.DecidedBy, &day.DecidedAt,
		&day.CreatedAt, &day.UpdatedAt,
		&day.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceDay{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceDay{}, err
	}

	return day, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, work_location,
			   clock_in_time, clock_out_time, total_hours,
			   status, decided_by, decided_at,
			   created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`

	var day attendance.AttendanceDay
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&day.ID, &day.EmployeeID, &day.Date, &day.WorkLocation,
		&day.ClockIn, &day.ClockOut, &day.TotalHours,
		&day.Status, &day.DecidedBy, &day.DecidedAt,
		&day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &day, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, day attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET work_location = $1,
			clock_in_time = $2,
			clock_out_time = $3,
			total_hours = $4,
			status = $5,
			decided_by = $6,
			decided_at = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	result, err := q.Exec(ctx, query,
		day.WorkLocation, day.ClockIn, day.ClockOut, day.TotalHours,
		day.Status, day.DecidedBy, day.DecidedAt,
		day.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, work_location,
			clock_in_time, clock_out_time, total_hours,
			status, decided_by, decided_at,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			NOW(), NOW()
		)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			decided_by = EXCLUDED.decided_by,
			decided_at = EXCLUDED.decided_at,
			updated_at = NOW()
		RETURNING id, work_location, clock_in_time, clock_out_time, total_hours,
				  created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.EmployeeID, day.Date, day.WorkLocation,
		day.ClockIn, day.ClockOut, day.TotalHours,
		day.Status, day.DecidedBy, day.DecidedAt,
	).Scan(
		&day.ID, &day.WorkLocation, &day.ClockIn, &day.ClockOut, &day.TotalHours,
		&day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceDay{}, err
	}

	return day, nil
}

// GetByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) ([]attendance.AttendanceDay, int64, error) {
	filter.EmployeeID = &employeeID
	return r.List(ctx, filter)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceDay, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// SortBy and SortOrder are whitelisted by the filter's Validate.
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT a.id, a.employee_id, a.date, a.work_location,
			   a.clock_in_time, a.clock_out_time, a.total_hours,
			   a.status, a.decided_by, a.decided_at,
			   a.created_at, a.updated_at,
			   e.full_name AS employee_name
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE %s
		ORDER BY a.%s %s
		LIMIT $%d OFFSET $%d
	`, where, filter.SortBy, strings.ToUpper(filter.SortOrder), argPos, argPos+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	days := make([]attendance.AttendanceDay, 0)
	for rows.Next() {
		var day attendance.AttendanceDay
		if err := rows.Scan(
			&day.ID, &day.EmployeeID, &day.Date, &day.WorkLocation,
			&day.ClockIn, &day.ClockOut, &day.TotalHours,
			&day.Status, &day.DecidedBy, &day.DecidedAt,
			&day.CreatedAt, &day.UpdatedAt,
			&day.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		days = append(days, day)
	}

	return days, total, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM attendances
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}
