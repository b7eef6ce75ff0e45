package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
	"github.com/hadirly/hadirly-backend-go/internal/handler/http/middleware"
	"github.com/hadirly/hadirly-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetMyBalances(w http.ResponseWriter, r *http.Request)

	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Allocate(w http.ResponseWriter, r *http.Request)
	GetBalances(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	ledgerService  leave.LedgerService
	requestService leave.RequestService
	clockYear      func() int
}

func NewLeaveHandler(ledgerService leave.LedgerService, requestService leave.RequestService, clockYear func() int) LeaveHandler {
	return &LeaveHandlerImpl{
		ledgerService:  ledgerService,
		requestService: requestService,
		clockYear:      clockYear,
	}
}

func parseRequestFilter(r *http.Request) leave.RequestFilter {
	q := r.URL.Query()
	filter := leave.RequestFilter{
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}
	if year, err := strconv.Atoi(q.Get("year")); err == nil {
		filter.Year = &year
	}

	return filter
}

func (l *LeaveHandlerImpl) yearParam(r *http.Request) int {
	if year, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		return year
	}
	return l.clockYear()
}

// Apply implements LeaveHandler.
func (l *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Apply decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := l.requestService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.requestService.Cancel(r.Context(), leave.CancelRequest{
		ID:         chi.URLParam(r, "id"),
		EmployeeID: employeeID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.requestService.GetMyRequests(r.Context(), employeeID, parseRequestFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.ledgerService.GetBalances(r.Context(), employeeID, l.yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	result, err := l.requestService.ListRequests(r.Context(), parseRequestFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	result, err := l.requestService.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements LeaveHandler. The body is optional and may carry a note.
func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.EmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.DecideLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Approve decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actorID
	req.Approve = true

	result, err := l.requestService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// Reject implements LeaveHandler.
func (l *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.EmployeeID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.DecideLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actorID
	req.Approve = false

	result, err := l.requestService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// Allocate implements LeaveHandler.
func (l *LeaveHandlerImpl) Allocate(w http.ResponseWriter, r *http.Request) {
	var req leave.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Allocate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.ledgerService.Allocate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance allocated", result)
}

// GetBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := l.ledgerService.GetBalances(r.Context(), employeeID, l.yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
