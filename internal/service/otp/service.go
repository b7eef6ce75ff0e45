package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/hadirly/hadirly-backend-go/internal/domain/notification"
	"github.com/hadirly/hadirly-backend-go/internal/domain/otp"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/clock"
	"golang.org/x/crypto/bcrypt"
)

type OTPServiceImpl struct {
	otp.ChallengeRepository
	clock clock.Clock
	ttl   time.Duration
	sink  notification.Sink
}

func NewOTPService(
	challengeRepository otp.ChallengeRepository,
	clk clock.Clock,
	ttl time.Duration,
	sink notification.Sink,
) otp.OTPService {
	return &OTPServiceImpl{
		ChallengeRepository: challengeRepository,
		clock:               clk,
		ttl:                 ttl,
		sink:                sink,
	}
}

// generateCode returns a zero-padded numeric code of otp.CodeLength digits.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otp.CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}

	return fmt.Sprintf("%0*d", otp.CodeLength, n), nil
}

// Issue implements otp.OTPService. A fresh challenge is refused while the
// identity's latest one is still live; expiry of the old challenge is what
// opens the resend window.
func (s *OTPServiceImpl) Issue(ctx context.Context, req otp.IssueRequest) (otp.IssueResponse, error) {
	if err := req.Validate(); err != nil {
		return otp.IssueResponse{}, err
	}

	now := s.clock.Now()

	latest, err := s.ChallengeRepository.GetLatestByIdentity(ctx, req.Identity)
	if err != nil && !errors.Is(err, otp.ErrChallengeNotFound) {
		return otp.IssueResponse{}, fmt.Errorf("failed to get latest challenge: %w", err)
	}
	if err == nil {
		if latest.Live(now) {
			return otp.IssueResponse{}, otp.ErrResendNotReady
		}
		if latest.Status == otp.StatusAwaitingInput && latest.ExpiredAt(now) {
			latest.Status = otp.StatusExpired
			if err := s.ChallengeRepository.Update(ctx, latest); err != nil {
				return otp.IssueResponse{}, fmt.Errorf("failed to expire stale challenge: %w", err)
			}
		}
	}

	code, err := generateCode()
	if err != nil {
		return otp.IssueResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return otp.IssueResponse{}, fmt.Errorf("failed to hash otp code: %w", err)
	}

	challenge, err := s.ChallengeRepository.Create(ctx, otp.Challenge{
		Identity:  req.Identity,
		CodeHash:  string(hash),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
		Status:    otp.StatusAwaitingInput,
	})
	if err != nil {
		return otp.IssueResponse{}, fmt.Errorf("failed to create otp challenge: %w", err)
	}

	// The plaintext code leaves through the delivery channel only; the
	// caller gets the challenge handle.
	s.sink.Notify(ctx, notification.Event{
		RecipientID: req.Identity,
		Type:        notification.TypeOTPIssued,
		Message:     "Your verification code is ready",
		Data: map[string]interface{}{
			"challenge_id": challenge.ID,
			"code":         code,
			"expires_at":   challenge.ExpiresAt.Format(time.RFC3339),
		},
		OccurredAt: now,
	})

	return otp.IssueResponse{
		ChallengeID: challenge.ID,
		Identity:    challenge.Identity,
		ExpiresAt:   challenge.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Verify implements otp.OTPService. A wrong code leaves the challenge open
// for retry; only a correct code or the expiry deadline closes it.
func (s *OTPServiceImpl) Verify(ctx context.Context, req otp.VerifyRequest) (otp.VerifyResponse, error) {
	if err := req.Validate(); err != nil {
		return otp.VerifyResponse{}, err
	}

	challenge, err := s.ChallengeRepository.GetLatestByIdentity(ctx, req.Identity)
	if err != nil {
		return otp.VerifyResponse{}, err
	}

	if challenge.Consumed {
		return otp.VerifyResponse{}, otp.ErrChallengeConsumed
	}
	if challenge.Status == otp.StatusExpired {
		return otp.VerifyResponse{}, otp.ErrExpired
	}

	now := s.clock.Now()
	if challenge.ExpiredAt(now) {
		challenge.Status = otp.StatusExpired
		if err := s.ChallengeRepository.Update(ctx, challenge); err != nil {
			return otp.VerifyResponse{}, fmt.Errorf("failed to expire challenge: %w", err)
		}
		return otp.VerifyResponse{}, otp.ErrExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(req.Code)); err != nil {
		challenge.Status = otp.StatusFailed
		if updateErr := s.ChallengeRepository.Update(ctx, challenge); updateErr != nil {
			return otp.VerifyResponse{}, fmt.Errorf("failed to record failed attempt: %w", updateErr)
		}
		return otp.VerifyResponse{}, otp.ErrCodeMismatch
	}

	challenge.Consumed = true
	challenge.Status = otp.StatusVerified
	if err := s.ChallengeRepository.Update(ctx, challenge); err != nil {
		return otp.VerifyResponse{}, fmt.Errorf("failed to update challenge: %w", err)
	}

	return otp.VerifyResponse{
		ChallengeID: challenge.ID,
		Identity:    challenge.Identity,
		Status:      string(challenge.Status),
		VerifiedAt:  now.Format(time.RFC3339),
	}, nil
}
