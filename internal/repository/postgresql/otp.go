package postgresql

import (
	"context"

	"github.com/hadirly/hadirly-backend-go/internal/domain/otp"
	"github.com/hadirly/hadirly-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type otpChallengeRepositoryImpl struct {
	db *database.DB
}

func NewOTPChallengeRepository(db *database.DB) otp.ChallengeRepository {
	return &otpChallengeRepositoryImpl{db: db}
}

// Create implements otp.ChallengeRepository.
func (r *otpChallengeRepositoryImpl) Create(ctx context.Context, challenge otp.Challenge) (otp.Challenge, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO otp_challenges (
			id, identity, code_hash,
			issued_at, expires_at, consumed, status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5, $6,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		challenge.Identity, challenge.CodeHash,
		challenge.IssuedAt, challenge.ExpiresAt, challenge.Consumed, challenge.Status,
	).Scan(&challenge.ID, &challenge.CreatedAt, &challenge.UpdatedAt)

	if err != nil {
		return otp.Challenge{}, err
	}

	return challenge, nil
}

// GetLatestByIdentity implements otp.ChallengeRepository.
func (r *otpChallengeRepositoryImpl) GetLatestByIdentity(ctx context.Context, identity string) (otp.Challenge, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, identity, code_hash,
			   issued_at, expires_at, consumed, status,
			   created_at, updated_at
		FROM otp_challenges
		WHERE identity = $1
		ORDER BY issued_at DESC
		LIMIT 1
	`

	var challenge otp.Challenge
	err := q.QueryRow(ctx, query, identity).Scan(
		&challenge.ID, &challenge.Identity, &challenge.CodeHash,
		&challenge.IssuedAt, &challenge.ExpiresAt, &challenge.Consumed, &challenge.Status,
		&challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return otp.Challenge{}, otp.ErrChallengeNotFound
		}
		return otp.Challenge{}, err
	}

	return challenge, nil
}

// Update implements otp.ChallengeRepository.
func (r *otpChallengeRepositoryImpl) Update(ctx context.Context, challenge otp.Challenge) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE otp_challenges
		SET consumed = $1,
			status = $2,
			updated_at = NOW()
		WHERE id = $3
	`

	result, err := q.Exec(ctx, query, challenge.Consumed, challenge.Status, challenge.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return otp.ErrChallengeNotFound
	}

	return nil
}
