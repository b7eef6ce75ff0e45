package leave

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
	"github.com/hadirly/hadirly-backend-go/internal/domain/notification"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/clock"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
)

type RequestServiceImpl struct {
	tx database.Transactor
	leave.BalanceRepository
	leave.RequestRepository
	clock clock.Clock
	sink  notification.Sink
}

func NewRequestService(
	tx database.Transactor,
	balanceRepository leave.BalanceRepository,
	requestRepository leave.RequestRepository,
	clk clock.Clock,
	sink notification.Sink,
) leave.RequestService {
	return &RequestServiceImpl{
		tx:                tx,
		BalanceRepository: balanceRepository,
		RequestRepository: requestRepository,
		clock:             clk,
		sink:              sink,
	}
}

func toRequestResponse(req leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Category:     string(req.Category),
		StartDate:    req.StartDate.Format("2006-01-02"),
		EndDate:      req.EndDate.Format("2006-01-02"),
		TotalDays:    req.TotalDays,
		Reason:       req.Reason,
		Status:       string(req.Status),
		DecidedBy:    req.DecidedBy,
		DecisionNote: req.DecisionNote,
		CreatedAt:    req.CreatedAt.Format(time.RFC3339),
	}
	if req.DecidedAt != nil {
		decidedAt := req.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	return resp
}

// Apply implements leave.RequestService. Balance for the span's working
// days is reserved in the same transaction that records the request, so
// a pending request already counts against quota.
func (r *RequestServiceImpl) Apply(ctx context.Context, req leave.ApplyRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	if endDate.Before(startDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	workingDays := leave.WorkingDays(startDate, endDate)
	if workingDays == 0 {
		return leave.LeaveRequestResponse{}, leave.ErrNoWorkingDays
	}

	year := startDate.Year()

	var created leave.LeaveRequest
	err = r.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.BalanceRepository.Reserve(ctx, req.EmployeeID, req.Category, year, workingDays); err != nil {
			return err
		}

		created, err = r.RequestRepository.Create(ctx, leave.LeaveRequest{
			EmployeeID: req.EmployeeID,
			Category:   req.Category,
			StartDate:  startDate,
			EndDate:    endDate,
			TotalDays:  workingDays,
			Reason:     req.Reason,
			Status:     leave.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	r.sink.Notify(ctx, notification.Event{
		RecipientID: req.EmployeeID,
		Type:        notification.TypeLeaveApplied,
		Message:     fmt.Sprintf("Leave request for %s submitted (%.0f working days)", req.Category, workingDays),
		Data:        map[string]interface{}{"request_id": created.ID, "category": string(req.Category)},
		OccurredAt:  r.clock.Now(),
	})

	return toRequestResponse(created), nil
}

// Decide implements leave.RequestService. Approval keeps the reservation
// made at apply time; rejection releases it.
func (r *RequestServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := r.RequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.EmployeeID == req.ActorID {
		return leave.LeaveRequestResponse{}, leave.ErrSelfApproval
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	now := r.clock.Now()
	request.DecidedBy = &req.ActorID
	request.DecidedAt = &now
	request.DecisionNote = req.Note

	eventType := notification.TypeLeaveApproved
	message := "Your leave request was approved"

	if req.Approve {
		request.Status = leave.StatusApproved
		if err := r.RequestRepository.UpdateStatus(ctx, request); err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
		}
	} else {
		request.Status = leave.StatusRejected
		eventType = notification.TypeLeaveRejected
		message = "Your leave request was rejected"

		err = r.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := r.RequestRepository.UpdateStatus(ctx, request); err != nil {
				return fmt.Errorf("failed to update leave request: %w", err)
			}
			return r.BalanceRepository.Release(ctx, request.EmployeeID, request.Category, request.StartDate.Year(), request.TotalDays)
		})
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	}

	r.sink.Notify(ctx, notification.Event{
		RecipientID: request.EmployeeID,
		Type:        eventType,
		Message:     message,
		Data:        map[string]interface{}{"request_id": request.ID, "status": string(request.Status)},
		OccurredAt:  now,
	})

	return toRequestResponse(request), nil
}

// Cancel implements leave.RequestService. Both pending and approved
// requests can be cancelled; either way the reserved days come back.
func (r *RequestServiceImpl) Cancel(ctx context.Context, req leave.CancelRequest) (leave.LeaveRequestResponse, error) {
	request, err := r.RequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.EmployeeID != req.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	if request.Status.Terminal() {
		return leave.LeaveRequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	request.Status = leave.StatusCancelled

	err = r.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.RequestRepository.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return r.BalanceRepository.Release(ctx, request.EmployeeID, request.Category, request.StartDate.Year(), request.TotalDays)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	r.sink.Notify(ctx, notification.Event{
		RecipientID: request.EmployeeID,
		Type:        notification.TypeLeaveCancelled,
		Message:     "Your leave request was cancelled",
		Data:        map[string]interface{}{"request_id": request.ID},
		OccurredAt:  r.clock.Now(),
	})

	return toRequestResponse(request), nil
}

// GetRequest implements leave.RequestService.
func (r *RequestServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := r.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(request), nil
}

// GetMyRequests implements leave.RequestService.
func (r *RequestServiceImpl) GetMyRequests(ctx context.Context, employeeID string, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListRequestsResponse{}, err
	}

	requests, total, err := r.RequestRepository.GetByEmployee(ctx, employeeID, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return buildListResponse(requests, total, filter), nil
}

// ListRequests implements leave.RequestService.
func (r *RequestServiceImpl) ListRequests(ctx context.Context, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListRequestsResponse{}, err
	}

	requests, total, err := r.RequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return buildListResponse(requests, total, filter), nil
}

func buildListResponse(requests []leave.LeaveRequest, total int64, filter leave.RequestFilter) leave.ListRequestsResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toRequestResponse(req))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return leave.ListRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   responses,
	}
}
