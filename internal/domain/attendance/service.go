package attendance

import (
	"context"
)

// AttendanceService defines business logic for the attendance lifecycle
type AttendanceService interface {
	// ClockIn records a provisional check-in for today; the day stays pending
	// until an administrator decides it
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes today's open record and computes total hours
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// Decide resolves a pending record to present, late or absent
	Decide(ctx context.Context, req DecideRequest) (AttendanceResponse, error)

	// ManualMark overrides a day's status directly, valid from any status
	ManualMark(ctx context.Context, req ManualMarkRequest) (AttendanceResponse, error)

	// BulkMark applies ManualMark per employee, reporting per-item results
	BulkMark(ctx context.Context, req BulkMarkRequest) (BulkMarkResponse, error)

	// GetMyAttendance retrieves attendance records for the authenticated employee
	GetMyAttendance(ctx context.Context, employeeID string, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// DeleteAttendance removes an attendance record (admin correction)
	DeleteAttendance(ctx context.Context, id string) error
}
