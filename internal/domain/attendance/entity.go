package attendance

import (
	"time"
)

// Status is the lifecycle state of an attendance day.
type Status string

const (
	StatusUnmarked Status = "unmarked"
	StatusPending  Status = "pending"
	StatusPresent  Status = "present"
	StatusLate     Status = "late"
	StatusAbsent   Status = "absent"
)

// IsOutcome reports whether s is a terminal status an administrator may decide.
func IsOutcome(s Status) bool {
	return s == StatusPresent || s == StatusLate || s == StatusAbsent
}

// WorkLocation is where the employee reported working from.
type WorkLocation string

const (
	LocationOffice WorkLocation = "office"
	LocationHome   WorkLocation = "home"
)

func IsValidLocation(l WorkLocation) bool {
	return l == LocationOffice || l == LocationHome
}

// AttendanceDay is the per-employee, per-calendar-date attendance record.
// At most one row exists per (employee, date). A self-reported clock-in is
// provisional (pending) until an administrator decides it; administrator
// marks are final immediately.
type AttendanceDay struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	WorkLocation *WorkLocation
	ClockIn      *time.Time
	ClockOut     *time.Time
	TotalHours   *float64
	Status       Status
	DecidedBy    *string
	DecidedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	EmployeeName *string
}

// Open reports whether the day has a clock-in without a clock-out.
func (a AttendanceDay) Open() bool {
	return a.ClockIn != nil && a.ClockOut == nil
}
