package leave

import (
	"context"
)

// BalanceRepository - interface for the leave_balances table
type BalanceRepository interface {
	// Allocate upserts the quota row for (employee, category, year),
	// setting total_days and preserving used_days.
	Allocate(ctx context.Context, employeeID string, category Category, year int, totalDays float64) (CategoryBalance, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]CategoryBalance, error)
	GetByEmployeeCategoryYear(ctx context.Context, employeeID string, category Category, year int) (CategoryBalance, error)
	// Reserve atomically adds days to used_days, failing with
	// ErrInsufficientBalance when the category would go negative.
	// The unpaid category is exempt from the non-negativity check.
	Reserve(ctx context.Context, employeeID string, category Category, year int, days float64) error
	// Release subtracts days from used_days.
	Release(ctx context.Context, employeeID string, category Category, year int, days float64) error
}

// RequestRepository - interface for the leave_requests table
type RequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	UpdateStatus(ctx context.Context, req LeaveRequest) error
	GetByEmployee(ctx context.Context, employeeID string, filter RequestFilter) ([]LeaveRequest, int64, error)
	List(ctx context.Context, filter RequestFilter) ([]LeaveRequest, int64, error)
}
