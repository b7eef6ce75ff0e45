package response

import (
	"errors"
	"net/http"

	"github.com/hadirly/hadirly-backend-go/internal/domain/attendance"
	"github.com/hadirly/hadirly-backend-go/internal/domain/auth"
	"github.com/hadirly/hadirly-backend-go/internal/domain/employee"
	"github.com/hadirly/hadirly-backend-go/internal/domain/leave"
	"github.com/hadirly/hadirly-backend-go/internal/domain/otp"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "No clock-in recorded for today", nil)
	case errors.Is(err, attendance.ErrNotPending):
		Conflict(w, "Attendance record is not pending")
	case errors.Is(err, attendance.ErrSelfApproval):
		Forbidden(w, "You cannot decide your own attendance")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "You do not own this leave request")
	case errors.Is(err, leave.ErrSelfApproval):
		Forbidden(w, "You cannot decide your own leave request")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrNoWorkingDays):
		BadRequest(w, "The requested range contains no working days", nil)

	// OTP domain errors
	case errors.Is(err, otp.ErrChallengeNotFound):
		NotFound(w, "No verification challenge found")
	case errors.Is(err, otp.ErrExpired):
		Gone(w, "Verification code has expired")
	case errors.Is(err, otp.ErrCodeMismatch):
		BadRequest(w, "Verification code does not match", nil)
	case errors.Is(err, otp.ErrChallengeConsumed):
		Conflict(w, "Verification challenge already used")
	case errors.Is(err, otp.ErrResendNotReady):
		TooManyRequests(w, "An active verification code already exists")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
