package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in/out errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrAlreadyClockedOut = errors.New("you have already clocked out today")
	ErrNotClockedIn      = errors.New("you have not clocked in yet")

	// Decision errors
	ErrNotPending   = errors.New("attendance record is not pending")
	ErrSelfApproval = errors.New("you cannot decide your own attendance")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
