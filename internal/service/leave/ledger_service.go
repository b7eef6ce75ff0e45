package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadirly/hadirly-backend-go/internal/domain/employee"
	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
)

type LedgerServiceImpl struct {
	leave.BalanceRepository
	employee.EmployeeRepository
}

func NewLedgerService(
	balanceRepository leave.BalanceRepository,
	employeeRepository employee.EmployeeRepository,
) leave.LedgerService {
	return &LedgerServiceImpl{
		BalanceRepository:  balanceRepository,
		EmployeeRepository: employeeRepository,
	}
}

func toBalanceResponse(b leave.CategoryBalance) leave.BalanceResponse {
	return leave.BalanceResponse{
		Category:  string(b.Category),
		Year:      b.Year,
		TotalDays: b.TotalDays,
		UsedDays:  b.UsedDays,
		Remaining: b.Remaining(),
	}
}

// Allocate implements leave.LedgerService.
func (l *LedgerServiceImpl) Allocate(ctx context.Context, req leave.AllocateRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	exists, err := l.EmployeeRepository.Exists(ctx, req.EmployeeID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return leave.BalanceResponse{}, employee.ErrEmployeeNotFound
	}

	balance, err := l.BalanceRepository.Allocate(ctx, req.EmployeeID, req.Category, req.Year, req.TotalDays)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to allocate leave balance: %w", err)
	}

	return toBalanceResponse(balance), nil
}

// GetBalances implements leave.LedgerService. Categories without an
// allocation row are reported with zero totals so the response always
// covers the full category set.
func (l *LedgerServiceImpl) GetBalances(ctx context.Context, employeeID string, year int) (leave.BalanceSummaryResponse, error) {
	if _, err := l.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.BalanceSummaryResponse{}, err
		}
		return leave.BalanceSummaryResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	balances, err := l.BalanceRepository.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceSummaryResponse{}, fmt.Errorf("failed to get leave balances: %w", err)
	}

	byCategory := make(map[leave.Category]leave.CategoryBalance, len(balances))
	for _, b := range balances {
		byCategory[b.Category] = b
	}

	responses := make([]leave.BalanceResponse, 0, len(leave.Categories))
	for _, category := range leave.Categories {
		if b, ok := byCategory[category]; ok {
			responses = append(responses, toBalanceResponse(b))
			continue
		}
		responses = append(responses, leave.BalanceResponse{
			Category: string(category),
			Year:     year,
		})
	}

	return leave.BalanceSummaryResponse{
		EmployeeID: employeeID,
		Year:       year,
		Balances:   responses,
	}, nil
}
