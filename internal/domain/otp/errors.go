package otp

import "errors"

// OTP domain errors
var (
	ErrChallengeNotFound  = errors.New("otp challenge not found")
	ErrExpired            = errors.New("otp code has expired")
	ErrCodeMismatch       = errors.New("otp code does not match")
	ErrChallengeConsumed  = errors.New("otp challenge has already been used")
	ErrResendNotReady     = errors.New("an active otp challenge already exists for this identity")
)
