// Package auth provides token validation for requests authenticated by the
// external identity provider. The provider signs JWTs with a shared HMAC
// secret; this package validates them and exposes the subject as the user
// ID. Token generation exists for tests and local development, standing in
// for the provider itself.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common authentication errors
var (
	// ErrInvalidToken indicates the token failed signature or structural
	// validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrWrongTokenType indicates an access token was presented where a
	// refresh token was required, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims holds the validated identity extracted from a token.
type Claims struct {
	UserID    uuid.UUID
	TokenType string
}

// JWTService defines the interface for token generation and validation.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// GenerateRefreshToken creates a signed refresh token for the given user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token and returns its claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// ValidateRefreshToken validates a refresh token and returns its claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType.
	ValidateRefreshToken(ctx context.Context, token string) (*Claims, error)
}
