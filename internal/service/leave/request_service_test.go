package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
	"github.com/hadirly/hadirly-backend-go/internal/domain/notification"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/clock"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughTx runs fn without a real transaction.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type balanceKey struct {
	employeeID string
	category   leave.Category
	year       int
}

// memBalanceRepo is an in-memory leave.BalanceRepository with the same
// reservation semantics as the SQL implementation.
type memBalanceRepo struct {
	balances map[balanceKey]leave.CategoryBalance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{balances: make(map[balanceKey]leave.CategoryBalance)}
}

func (m *memBalanceRepo) Allocate(ctx context.Context, employeeID string, category leave.Category, year int, totalDays float64) (leave.CategoryBalance, error) {
	key := balanceKey{employeeID, category, year}
	balance, ok := m.balances[key]
	if !ok {
		balance = leave.CategoryBalance{
			ID:         fmt.Sprintf("bal-%s-%s-%d", employeeID, category, year),
			EmployeeID: employeeID,
			Category:   category,
			Year:       year,
		}
	}
	balance.TotalDays = totalDays
	m.balances[key] = balance
	return balance, nil
}

func (m *memBalanceRepo) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.CategoryBalance, error) {
	balances := make([]leave.CategoryBalance, 0)
	for key, balance := range m.balances {
		if key.employeeID == employeeID && key.year == year {
			balances = append(balances, balance)
		}
	}
	return balances, nil
}

func (m *memBalanceRepo) GetByEmployeeCategoryYear(ctx context.Context, employeeID string, category leave.Category, year int) (leave.CategoryBalance, error) {
	balance, ok := m.balances[balanceKey{employeeID, category, year}]
	if !ok {
		return leave.CategoryBalance{}, leave.ErrBalanceNotFound
	}
	return balance, nil
}

func (m *memBalanceRepo) Reserve(ctx context.Context, employeeID string, category leave.Category, year int, days float64) error {
	key := balanceKey{employeeID, category, year}
	balance, ok := m.balances[key]

	if category == leave.CategoryUnpaid {
		if !ok {
			balance = leave.CategoryBalance{EmployeeID: employeeID, Category: category, Year: year}
		}
		balance.UsedDays += days
		m.balances[key] = balance
		return nil
	}

	if !ok || balance.TotalDays-balance.UsedDays-days < 0 {
		return leave.ErrInsufficientBalance
	}
	balance.UsedDays += days
	m.balances[key] = balance
	return nil
}

func (m *memBalanceRepo) Release(ctx context.Context, employeeID string, category leave.Category, year int, days float64) error {
	key := balanceKey{employeeID, category, year}
	balance, ok := m.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	balance.UsedDays -= days
	m.balances[key] = balance
	return nil
}

// memRequestRepo is an in-memory leave.RequestRepository.
type memRequestRepo struct {
	requests map[string]leave.LeaveRequest
	nextID   int
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (m *memRequestRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	m.nextID++
	req.ID = fmt.Sprintf("req-%d", m.nextID)
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	m.requests[req.ID] = req
	return req, nil
}

func (m *memRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (m *memRequestRepo) UpdateStatus(ctx context.Context, req leave.LeaveRequest) error {
	existing, ok := m.requests[req.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	existing.Status = req.Status
	existing.DecidedBy = req.DecidedBy
	existing.DecidedAt = req.DecidedAt
	existing.DecisionNote = req.DecisionNote
	m.requests[req.ID] = existing
	return nil
}

func (m *memRequestRepo) GetByEmployee(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	filter.EmployeeID = &employeeID
	return m.List(ctx, filter)
}

func (m *memRequestRepo) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	requests := make([]leave.LeaveRequest, 0)
	for _, req := range m.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		requests = append(requests, req)
	}
	return requests, int64(len(requests)), nil
}

func newTestRequestService() (leave.RequestService, *memBalanceRepo, *memRequestRepo) {
	balances := newMemBalanceRepo()
	requests := newMemRequestRepo()
	clk := clock.NewFixed(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	svc := NewRequestService(passthroughTx{}, balances, requests, clk, notification.NopSink{})
	return svc, balances, requests
}

func allocate(t *testing.T, balances *memBalanceRepo, employeeID string, category leave.Category, year int, days float64) {
	t.Helper()
	_, err := balances.Allocate(context.Background(), employeeID, category, year, days)
	require.NoError(t, err)
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"single weekday", "2026-03-02", "2026-03-02", 1},
		{"full work week", "2026-03-02", "2026-03-06", 5},
		{"spanning a weekend", "2026-03-05", "2026-03-10", 4},
		{"weekend only", "2026-03-07", "2026-03-08", 0},
		{"two full weeks", "2026-03-02", "2026-03-13", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := time.Parse("2006-01-02", tt.start)
			require.NoError(t, err)
			end, err := time.Parse("2006-01-02", tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, leave.WorkingDays(start, end))
		})
	}
}

func TestApply_ReservesWorkingDays(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 12)

	resp, err := svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: "emp-1",
		Category:   leave.CategoryVacation,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
		Reason:     "family trip out of town",
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 5.0, resp.TotalDays)

	balance, err := balances.GetByEmployeeCategoryYear(ctx, "emp-1", leave.CategoryVacation, 2026)
	require.NoError(t, err)
	assert.Equal(t, 5.0, balance.UsedDays)
	assert.Equal(t, 7.0, balance.Remaining())
}

func TestApply_InsufficientBalanceFails(t *testing.T) {
	ctx := context.Background()
	svc, balances, requests := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 3)

	_, err := svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: "emp-1",
		Category:   leave.CategoryVacation,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
		Reason:     "family trip out of town",
	})

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Empty(t, requests.requests)
}

func TestApply_UnpaidGoesNegative(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()

	resp, err := svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: "emp-1",
		Category:   leave.CategoryUnpaid,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-03",
		Reason:     "unpaid sabbatical days",
	})

	require.NoError(t, err)
	assert.Equal(t, 2.0, resp.TotalDays)

	balance, err := balances.GetByEmployeeCategoryYear(ctx, "emp-1", leave.CategoryUnpaid, 2026)
	require.NoError(t, err)
	assert.Equal(t, -2.0, balance.Remaining())
}

func TestApply_EndBeforeStartFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestRequestService()

	_, err := svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: "emp-1",
		Category:   leave.CategoryVacation,
		StartDate:  "2026-03-06",
		EndDate:    "2026-03-02",
		Reason:     "dates entered backwards",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestApply_WeekendOnlyFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestRequestService()

	_, err := svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: "emp-1",
		Category:   leave.CategoryVacation,
		StartDate:  "2026-03-07",
		EndDate:    "2026-03-08",
		Reason:     "weekend does not need leave",
	})
	assert.ErrorIs(t, err, leave.ErrNoWorkingDays)
}

func TestApply_ShortReasonFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestRequestService()

	_, err := svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: "emp-1",
		Category:   leave.CategoryVacation,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-02",
		Reason:     "trip",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, leave.ErrInsufficientBalance)
}

func applyRequest(t *testing.T, svc leave.RequestService, employeeID string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := svc.Apply(context.Background(), leave.ApplyRequest{
		EmployeeID: employeeID,
		Category:   leave.CategoryVacation,
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-04",
		Reason:     "family trip out of town",
	})
	require.NoError(t, err)
	return resp
}

func TestDecide_ApproveKeepsReservation(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	resp, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, ActorID: "admin-1", Approve: true})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	// Approval performs no ledger mutation; the days stay used.
	balance, err := balances.GetByEmployeeCategoryYear(ctx, "emp-1", leave.CategoryVacation, 2026)
	require.NoError(t, err)
	assert.Equal(t, 3.0, balance.UsedDays)
}

func TestDecide_RejectReleasesReservation(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	note := "coverage conflict that week"
	resp, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, ActorID: "admin-1", Approve: false, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.DecisionNote)
	assert.Equal(t, note, *resp.DecisionNote)

	balance, err := balances.GetByEmployeeCategoryYear(ctx, "emp-1", leave.CategoryVacation, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.UsedDays)
}

func TestDecide_OwnRequestFails(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "admin-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "admin-1")

	_, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, ActorID: "admin-1", Approve: true})
	assert.ErrorIs(t, err, leave.ErrSelfApproval)
}

func TestDecide_AlreadyProcessedFails(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	_, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, ActorID: "admin-1", Approve: true})
	require.NoError(t, err)

	note := "headcount is short"
	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, ActorID: "admin-2", Approve: false, Note: &note})
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyProcessed)
}

func TestDecide_RejectWithoutNoteFails(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	_, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, ActorID: "admin-1", Approve: false})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestCancel_PendingReleasesReservation(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	resp, err := svc.Cancel(ctx, leave.CancelRequest{ID: created.ID, EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	balance, err := balances.GetByEmployeeCategoryYear(ctx, "emp-1", leave.CategoryVacation, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.UsedDays)
}

func TestCancel_ApprovedReleasesReservation(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	_, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, ActorID: "admin-1", Approve: true})
	require.NoError(t, err)

	resp, err := svc.Cancel(ctx, leave.CancelRequest{ID: created.ID, EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	balance, err := balances.GetByEmployeeCategoryYear(ctx, "emp-1", leave.CategoryVacation, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.UsedDays)
}

func TestCancel_NotOwnerFails(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	_, err := svc.Cancel(ctx, leave.CancelRequest{ID: created.ID, EmployeeID: "emp-2"})
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)
}

func TestCancel_TerminalStatusFails(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	created := applyRequest(t, svc, "emp-1")

	_, err := svc.Cancel(ctx, leave.CancelRequest{ID: created.ID, EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, leave.CancelRequest{ID: created.ID, EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyProcessed)
}

func TestCancelThenReapplySucceeds(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 3)
	created := applyRequest(t, svc, "emp-1")

	_, err := svc.Cancel(ctx, leave.CancelRequest{ID: created.ID, EmployeeID: "emp-1"})
	require.NoError(t, err)

	// The released days are immediately usable again.
	reapplied := applyRequest(t, svc, "emp-1")
	assert.Equal(t, "pending", reapplied.Status)
}

func TestGetMyRequests_FiltersByEmployee(t *testing.T) {
	ctx := context.Background()
	svc, balances, _ := newTestRequestService()
	allocate(t, balances, "emp-1", leave.CategoryVacation, 2026, 10)
	allocate(t, balances, "emp-2", leave.CategoryVacation, 2026, 10)
	applyRequest(t, svc, "emp-1")
	applyRequest(t, svc, "emp-2")

	resp, err := svc.GetMyRequests(ctx, "emp-1", leave.RequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, "emp-1", resp.Requests[0].EmployeeID)
}
