package otp

import (
	"context"
)

// OTPService manages issue/verify of one-time codes
type OTPService interface {
	// Issue creates a fresh challenge for the identity. While a live
	// challenge exists the call is refused with ErrResendNotReady.
	Issue(ctx context.Context, req IssueRequest) (IssueResponse, error)

	// Verify checks a submitted code against the identity's latest
	// challenge. A correct code consumes the challenge; a wrong code
	// leaves it open for retry until expiry.
	Verify(ctx context.Context, req VerifyRequest) (VerifyResponse, error)
}
