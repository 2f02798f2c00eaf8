// Package auth handles token issuance and password verification for the
// HTTP surface. Tokens are HMAC-signed JWTs carrying the user's identity
// and role; the role claim is what lets middleware gate admin routes
// without a user lookup.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskledger/taskledger-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the actor.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, actor *domain.Actor) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims containing the actor's identity if the token is valid,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the actor.
	// Refresh tokens have a longer lifetime and are used to obtain new access tokens.
	GenerateRefreshToken(ctx context.Context, actor *domain.Actor) (string, error)

	// ValidateRefreshToken validates the provided refresh token string and extracts
	// the claims, or returns an error (expired, invalid signature, wrong token type).
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Username mirrors the account name, so audit attribution does not
	// need a user lookup per request.
	Username string `json:"username,omitempty"`

	// Role is the user's role at issuance time.
	Role domain.Role `json:"role,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Actor rebuilds the acting identity from the claims.
func (c *Claims) Actor() *domain.Actor {
	return &domain.Actor{
		ID:       c.UserID,
		Username: c.Username,
		Role:     c.Role,
	}
}
