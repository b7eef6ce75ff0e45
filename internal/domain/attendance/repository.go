package attendance

import (
	"context"
	"time"
)

// AttendanceRepository - interface for the attendances table
type AttendanceRepository interface {
	Create(ctx context.Context, day AttendanceDay) (AttendanceDay, error)
	GetByID(ctx context.Context, id string) (AttendanceDay, error)
	// GetByEmployeeAndDate returns nil when no record exists for the date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)
	Update(ctx context.Context, day AttendanceDay) error
	// Upsert creates or overwrites the (employee, date) record with the given
	// status and decision fields. Used by manual/bulk marking.
	Upsert(ctx context.Context, day AttendanceDay) (AttendanceDay, error)
	GetByEmployee(ctx context.Context, employeeID string, filter AttendanceFilter) ([]AttendanceDay, int64, error)
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceDay, int64, error)
	Delete(ctx context.Context, id string) error
}
