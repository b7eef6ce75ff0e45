package auth

import (
	"context"
)

// AuthService issues the tokens the authenticated routes verify.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
