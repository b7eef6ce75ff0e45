package leave

import (
	"context"
)

// LedgerService manages per-category leave quotas
type LedgerService interface {
	// Allocate sets an employee's quota for a category and year (admin)
	Allocate(ctx context.Context, req AllocateRequest) (BalanceResponse, error)

	// GetBalances retrieves an employee's balances for a year. Categories
	// with no allocation row are reported with zero totals.
	GetBalances(ctx context.Context, employeeID string, year int) (BalanceSummaryResponse, error)
}

// RequestService manages the leave request lifecycle
type RequestService interface {
	// Apply submits a leave request and reserves balance for its working days
	Apply(ctx context.Context, req ApplyRequest) (LeaveRequestResponse, error)

	// Decide approves or rejects a pending request. Rejection releases the
	// reserved balance; approval keeps it.
	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)

	// Cancel withdraws the caller's own pending or approved request and
	// releases its reserved balance
	Cancel(ctx context.Context, req CancelRequest) (LeaveRequestResponse, error)

	// GetRequest retrieves a single leave request by ID
	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)

	// GetMyRequests retrieves the authenticated employee's requests
	GetMyRequests(ctx context.Context, employeeID string, filter RequestFilter) (ListRequestsResponse, error)

	// ListRequests retrieves leave requests with filters (admin)
	ListRequests(ctx context.Context, filter RequestFilter) (ListRequestsResponse, error)
}
