package leave

import (
	"time"
)

// Category is a leave type with its own balance bucket.
type Category string

const (
	CategorySick      Category = "sick"
	CategoryCasual    Category = "casual"
	CategoryVacation  Category = "vacation"
	CategoryPersonal  Category = "personal"
	CategoryEmergency Category = "emergency"
	CategoryUnpaid    Category = "unpaid"
	CategoryCompOff   Category = "comp_off"
)

// Categories lists every known leave category.
var Categories = []Category{
	CategorySick,
	CategoryCasual,
	CategoryVacation,
	CategoryPersonal,
	CategoryEmergency,
	CategoryUnpaid,
	CategoryCompOff,
}

func IsValidCategory(c Category) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// CategoryBalance tracks one employee's quota for one category and year.
// Remaining days are always derived, never stored. The unpaid category is
// allowed to go negative; every other category must keep Remaining >= 0.
type CategoryBalance struct {
	ID         string
	EmployeeID string
	Category   Category
	Year       int
	TotalDays  float64
	UsedDays   float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b CategoryBalance) Remaining() float64 {
	return b.TotalDays - b.UsedDays
}

// RequestStatus is the lifecycle state of a leave request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// LeaveRequest is a dated span of requested leave. Balance is reserved at
// submission time, so a pending request already counts against quota.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Category   Category
	StartDate  time.Time
	EndDate    time.Time
	// TotalDays counts working days in [StartDate, EndDate], weekends excluded.
	TotalDays  float64
	Reason     string
	Status     RequestStatus
	DecidedBy  *string
	DecidedAt  *time.Time
	DecisionNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
}

// WorkingDays counts the weekdays in [start, end] inclusive.
func WorkingDays(start, end time.Time) float64 {
	days := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
