package otp

import (
	"github.com/hadirly/hadirly-backend-go/internal/pkg/validator"
)

// ========================================
// OTP DTOs
// ========================================

type IssueRequest struct {
	Identity string `json:"identity"`
}

func (r *IssueRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Identity) {
		errs = append(errs, validator.ValidationError{
			Field:   "identity",
			Message: "identity is required",
		})
	} else if !validator.IsValidEmail(r.Identity) {
		errs = append(errs, validator.ValidationError{
			Field:   "identity",
			Message: "identity must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type VerifyRequest struct {
	Identity string `json:"identity"`
	Code     string `json:"code"`
}

func (r *VerifyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Identity) {
		errs = append(errs, validator.ValidationError{
			Field:   "identity",
			Message: "identity is required",
		})
	}

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if len(r.Code) != CodeLength || !validator.IsNumeric(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be a 6-digit number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IssueResponse is the challenge handle. The plaintext code never appears
// here; it travels to the delivery channel through the notification sink.
type IssueResponse struct {
	ChallengeID string `json:"challenge_id"`
	Identity    string `json:"identity"`
	ExpiresAt   string `json:"expires_at"`
}

type VerifyResponse struct {
	ChallengeID string `json:"challenge_id"`
	Identity    string `json:"identity"`
	Status      string `json:"status"`
	VerifiedAt  string `json:"verified_at"`
}
