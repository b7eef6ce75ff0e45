package otp

import (
	"context"
)

// ChallengeRepository - interface for the otp_challenges table
type ChallengeRepository interface {
	Create(ctx context.Context, challenge Challenge) (Challenge, error)
	// GetLatestByIdentity returns the most recently issued challenge for
	// the identity, or ErrChallengeNotFound when none exists.
	GetLatestByIdentity(ctx context.Context, identity string) (Challenge, error)
	Update(ctx context.Context, challenge Challenge) error
}
