package postgresql

import (
	"context"

	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Allocate implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Allocate(ctx context.Context, employeeID string, category leave.Category, year int, totalDays float64) (leave.CategoryBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, category, year,
			total_days, used_days,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, 0,
			NOW(), NOW()
		)
		ON CONFLICT (employee_id, category, year) DO UPDATE
		SET total_days = EXCLUDED.total_days,
			updated_at = NOW()
		RETURNING id, used_days, created_at, updated_at
	`

	balance := leave.CategoryBalance{
		EmployeeID: employeeID,
		Category:   category,
		Year:       year,
		TotalDays:  totalDays,
	}

	err := q.QueryRow(ctx, query, employeeID, category, year, totalDays).Scan(
		&balance.ID, &balance.UsedDays, &balance.CreatedAt, &balance.UpdatedAt,
	)
	if err != nil {
		return leave.CategoryBalance{}, err
	}

	return balance, nil
}

// GetByEmployeeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.CategoryBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, category, year,
			   total_days, used_days,
			   created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY category
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.CategoryBalance, 0)
	for rows.Next() {
		var balance leave.CategoryBalance
		if err := rows.Scan(
			&balance.ID, &balance.EmployeeID, &balance.Category, &balance.Year,
			&balance.TotalDays, &balance.UsedDays,
			&balance.CreatedAt, &balance.UpdatedAt,
		); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, nil
}

// GetByEmployeeCategoryYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeCategoryYear(ctx context.Context, employeeID string, category leave.Category, year int) (leave.CategoryBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, category, year,
			   total_days, used_days,
			   created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND category = $2 AND year = $3
	`

	var balance leave.CategoryBalance
	err := q.QueryRow(ctx, query, employeeID, category, year).Scan(
		&balance.ID, &balance.EmployeeID, &balance.Category, &balance.Year,
		&balance.TotalDays, &balance.UsedDays,
		&balance.CreatedAt, &balance.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.CategoryBalance{}, leave.ErrBalanceNotFound
		}
		return leave.CategoryBalance{}, err
	}

	return balance, nil
}

// Reserve implements leave.BalanceRepository. The balance check and the
// increment happen in one statement so concurrent reservations cannot
// both pass against the same remaining days. Unpaid leave has no quota
// and is allowed to go negative.
func (r *leaveBalanceRepositoryImpl) Reserve(ctx context.Context, employeeID string, category leave.Category, year int, days float64) error {
	q := GetQuerier(ctx, r.db)

	if category == leave.CategoryUnpaid {
		// Create the row on first use; no quota applies.
		query := `
			INSERT INTO leave_balances (
				id, employee_id, category, year,
				total_days, used_days,
				created_at, updated_at
			) VALUES (
				uuidv7(), $1, $2, $3,
				0, $4,
				NOW(), NOW()
			)
			ON CONFLICT (employee_id, category, year) DO UPDATE
			SET used_days = leave_balances.used_days + $4,
				updated_at = NOW()
		`
		_, err := q.Exec(ctx, query, employeeID, category, year, days)
		return err
	}

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $1,
			updated_at = NOW()
		WHERE employee_id = $2 AND category = $3 AND year = $4
		AND total_days - used_days - $1 >= 0
	`

	result, err := q.Exec(ctx, query, days, employeeID, category, year)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInsufficientBalance
	}

	return nil
}

// Release implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Release(ctx context.Context, employeeID string, category leave.Category, year int, days float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days - $1,
			updated_at = NOW()
		WHERE employee_id = $2 AND category = $3 AND year = $4
	`

	result, err := q.Exec(ctx, query, days, employeeID, category, year)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}
