package leave

import "errors"

// Leave domain errors
var (
	// Balance errors
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBalanceNotFound     = errors.New("leave balance not found")

	// Request errors
	ErrRequestNotFound         = errors.New("leave request not found")
	ErrRequestAlreadyProcessed = errors.New("leave request has already been processed")
	ErrNotRequestOwner         = errors.New("you do not own this leave request")
	ErrSelfApproval            = errors.New("you cannot decide your own leave request")
	ErrInvalidDateRange        = errors.New("end date must not be before start date")
	ErrNoWorkingDays           = errors.New("the requested range contains no working days")
)
