package leave

import (
	"context"
	"testing"

	"github.com/hadirly/hadirly-backend-go/internal/domain/employee"
	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memEmployeeRepo is an in-memory employee.EmployeeRepository.
type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newMemEmployeeRepo(ids ...string) *memEmployeeRepo {
	repo := &memEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, id := range ids {
		repo.employees[id] = employee.Employee{ID: id, FullName: "Employee " + id, Email: id + "@example.com"}
	}
	return repo
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, emp := range m.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployeeRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.employees[id]
	return ok, nil
}

func TestAllocate_SetsQuota(t *testing.T) {
	ctx := context.Background()
	balances := newMemBalanceRepo()
	svc := NewLedgerService(balances, newMemEmployeeRepo("emp-1"))

	resp, err := svc.Allocate(ctx, leave.AllocateRequest{
		EmployeeID: "emp-1",
		Category:   leave.CategorySick,
		Year:       2026,
		TotalDays:  8,
	})

	require.NoError(t, err)
	assert.Equal(t, "sick", resp.Category)
	assert.Equal(t, 8.0, resp.TotalDays)
	assert.Equal(t, 8.0, resp.Remaining)
}

func TestAllocate_TopUpPreservesUsedDays(t *testing.T) {
	ctx := context.Background()
	balances := newMemBalanceRepo()
	svc := NewLedgerService(balances, newMemEmployeeRepo("emp-1"))

	_, err := svc.Allocate(ctx, leave.AllocateRequest{EmployeeID: "emp-1", Category: leave.CategorySick, Year: 2026, TotalDays: 8})
	require.NoError(t, err)
	require.NoError(t, balances.Reserve(ctx, "emp-1", leave.CategorySick, 2026, 3))

	resp, err := svc.Allocate(ctx, leave.AllocateRequest{EmployeeID: "emp-1", Category: leave.CategorySick, Year: 2026, TotalDays: 12})
	require.NoError(t, err)
	assert.Equal(t, 3.0, resp.UsedDays)
	assert.Equal(t, 9.0, resp.Remaining)
}

func TestAllocate_UnknownEmployeeFails(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(newMemBalanceRepo(), newMemEmployeeRepo())

	_, err := svc.Allocate(ctx, leave.AllocateRequest{
		EmployeeID: "ghost",
		Category:   leave.CategorySick,
		Year:       2026,
		TotalDays:  8,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetBalances_CoversAllCategories(t *testing.T) {
	ctx := context.Background()
	balances := newMemBalanceRepo()
	svc := NewLedgerService(balances, newMemEmployeeRepo("emp-1"))

	_, err := svc.Allocate(ctx, leave.AllocateRequest{EmployeeID: "emp-1", Category: leave.CategoryVacation, Year: 2026, TotalDays: 12})
	require.NoError(t, err)

	resp, err := svc.GetBalances(ctx, "emp-1", 2026)
	require.NoError(t, err)
	require.Len(t, resp.Balances, len(leave.Categories))

	byCategory := make(map[string]leave.BalanceResponse)
	for _, b := range resp.Balances {
		byCategory[b.Category] = b
	}

	assert.Equal(t, 12.0, byCategory["vacation"].TotalDays)
	// Unallocated categories are reported with zero totals.
	assert.Equal(t, 0.0, byCategory["sick"].TotalDays)
	assert.Equal(t, 0.0, byCategory["sick"].Remaining)
}

func TestGetBalances_UnknownEmployeeFails(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(newMemBalanceRepo(), newMemEmployeeRepo())

	_, err := svc.GetBalances(ctx, "ghost", 2026)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
