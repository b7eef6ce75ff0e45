package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/domain/employee"
	"github.com/hadirly/hadirly-backend-go/internal/domain/notification"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	clock clock.Clock
	sink  notification.Sink
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	clk clock.Clock,
	sink notification.Sink,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		clock:                clk,
		sink:                 sink,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func locationPtrToString(l *attendance.WorkLocation) *string {
	if l == nil {
		return nil
	}
	s := string(*l)
	return &s
}

func toResponse(day attendance.AttendanceDay) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           day.ID,
		EmployeeID:   day.EmployeeID,
		EmployeeName: day.EmployeeName,
		Date:         day.Date.Format("2006-01-02"),
		WorkLocation: locationPtrToString(day.WorkLocation),
		ClockInTime:  timePtrToString(day.ClockIn),
		ClockOutTime: timePtrToString(day.ClockOut),
		TotalHours:   day.TotalHours,
		Status:       string(day.Status),
		DecidedBy:    day.DecidedBy,
		DecidedAt:    timePtrToString(day.DecidedAt),
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	today := a.clock.Today()

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance for today: %w", err)
	}

	var day attendance.AttendanceDay

	if existing != nil {
		if existing.Open() {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
		}
		if existing.ClockIn != nil && existing.ClockOut != nil {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
		}

		// The day was marked manually before the employee clocked in.
		// Clocking in reopens it as a provisional record.
		existing.WorkLocation = &req.Location
		existing.ClockIn = &now
		existing.Status = attendance.StatusPending
		existing.DecidedBy = nil
		existing.DecidedAt = nil

		if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
		}
		day = *existing
	} else {
		day, err = a.AttendanceRepository.Create(ctx, attendance.AttendanceDay{
			EmployeeID:   req.EmployeeID,
			Date:         today,
			WorkLocation: &req.Location,
			ClockIn:      &now,
			Status:       attendance.StatusPending,
		})
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
		}
	}

	a.sink.Notify(ctx, notification.Event{
		RecipientID: req.EmployeeID,
		Type:        notification.TypeAttendanceClockIn,
		Message:     "Clock-in recorded, awaiting review",
		Data:        map[string]interface{}{"attendance_id": day.ID, "date": day.Date.Format("2006-01-02")},
		OccurredAt:  now,
	})

	return toResponse(day), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	today := a.clock.Today()

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance for today: %w", err)
	}
	if existing == nil || existing.ClockIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}
	if existing.ClockOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}

	totalHours := math.Round(now.Sub(*existing.ClockIn).Hours()*100) / 100
	existing.ClockOut = &now
	existing.TotalHours = &totalHours

	if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	a.sink.Notify(ctx, notification.Event{
		RecipientID: req.EmployeeID,
		Type:        notification.TypeAttendanceClockOut,
		Message:     "Clock-out recorded",
		Data:        map[string]interface{}{"attendance_id": existing.ID, "total_hours": totalHours},
		OccurredAt:  now,
	})

	return toResponse(*existing), nil
}

// Decide implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Decide(ctx context.Context, req attendance.DecideRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if day.EmployeeID == req.ActorID {
		return attendance.AttendanceResponse{}, attendance.ErrSelfApproval
	}

	// Re-applying the recorded outcome is a no-op.
	if day.Status == req.Outcome {
		return toResponse(day), nil
	}
	if day.Status != attendance.StatusPending {
		return attendance.AttendanceResponse{}, attendance.ErrNotPending
	}

	now := a.clock.Now()
	day.Status = req.Outcome
	day.DecidedBy = &req.ActorID
	day.DecidedAt = &now

	if err := a.AttendanceRepository.Update(ctx, day); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	a.sink.Notify(ctx, notification.Event{
		RecipientID: day.EmployeeID,
		Type:        notification.TypeAttendanceDecided,
		Message:     fmt.Sprintf("Your attendance for %s was marked %s", day.Date.Format("2006-01-02"), day.Status),
		Data:        map[string]interface{}{"attendance_id": day.ID, "status": string(day.Status)},
		OccurredAt:  now,
	})

	return toResponse(day), nil
}

// ManualMark implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ManualMark(ctx context.Context, req attendance.ManualMarkRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.markOne(ctx, req.ActorID, req.EmployeeID, req.Date, req.Outcome)
}

func (a *AttendanceServiceImpl) markOne(ctx context.Context, actorID, employeeID, dateStr string, outcome attendance.Status) (attendance.AttendanceResponse, error) {
	if employeeID == actorID {
		return attendance.AttendanceResponse{}, attendance.ErrSelfApproval
	}

	exists, err := a.EmployeeRepository.Exists(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	now := a.clock.Now()
	day, err := a.AttendanceRepository.Upsert(ctx, attendance.AttendanceDay{
		EmployeeID: employeeID,
		Date:       date,
		Status:     outcome,
		DecidedBy:  &actorID,
		DecidedAt:  &now,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	a.sink.Notify(ctx, notification.Event{
		RecipientID: employeeID,
		Type:        notification.TypeAttendanceDecided,
		Message:     fmt.Sprintf("Your attendance for %s was marked %s", dateStr, outcome),
		Data:        map[string]interface{}{"attendance_id": day.ID, "status": string(outcome)},
		OccurredAt:  now,
	})

	return toResponse(day), nil
}

// BulkMark implements attendance.AttendanceService. Each employee is
// processed independently so one failure does not abort the batch.
func (a *AttendanceServiceImpl) BulkMark(ctx context.Context, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkMarkResponse{}, err
	}

	resp := attendance.BulkMarkResponse{
		Results: make([]attendance.BulkMarkResult, 0, len(req.EmployeeIDs)),
	}

	for _, employeeID := range req.EmployeeIDs {
		result := attendance.BulkMarkResult{EmployeeID: employeeID}

		marked, err := a.markOne(ctx, req.ActorID, employeeID, req.Date, req.Outcome)
		if err != nil {
			result.Error = err.Error()
			resp.Failed++
		} else {
			result.Success = true
			result.Attendance = &marked
			resp.Succeeded++
		}

		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	days, total, err := a.AttendanceRepository.GetByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return buildListResponse(days, total, filter), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	days, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return buildListResponse(days, total, filter), nil
}

func buildListResponse(days []attendance.AttendanceDay, total int64, filter attendance.AttendanceFilter) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, toResponse(day))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	day, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toResponse(day), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	return a.AttendanceRepository.Delete(ctx, id)
}
