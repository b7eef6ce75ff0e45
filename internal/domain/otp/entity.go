package otp

import (
	"time"
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

// ChallengeStatus is the lifecycle state of an OTP challenge.
type ChallengeStatus string

const (
	StatusAwaitingInput ChallengeStatus = "awaiting_input"
	StatusExpired       ChallengeStatus = "expired"
	StatusVerified      ChallengeStatus = "verified"
	StatusFailed        ChallengeStatus = "failed"
)

// Challenge is a single-use verification code bound to an identity.
// Only the bcrypt hash of the code is stored; the plaintext exists only
// in the issue response (delivery is out of band).
type Challenge struct {
	ID        string
	Identity  string
	CodeHash  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Consumed  bool
	Status    ChallengeStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiredAt reports whether the challenge has passed its deadline as of now.
// Expiry is inclusive of the deadline instant: a code presented exactly at
// ExpiresAt is still accepted.
func (c Challenge) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Live reports whether the challenge still blocks reissue as of now.
// A failed attempt or expiry opens the resend window; the challenge
// itself stays verifiable until its deadline.
func (c Challenge) Live(now time.Time) bool {
	return !c.Consumed && c.Status == StatusAwaitingInput && !c.ExpiredAt(now)
}
