package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskledger/taskledger-api/internal/config"
	"github.com/taskledger/taskledger-api/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-secret-thats-at-least-32-characters-long",
		AccessTokenLifetime:  15 * time.Minute,
		RefreshTokenLifetime: 7 * 24 * time.Hour,
	}
}

func newTestService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func adminActor() *domain.Actor {
	return &domain.Actor{ID: uuid.New(), Username: "root", Role: domain.RoleAdmin}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = "too short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	actor := adminActor()
	ctx := context.Background()

	tokenString, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.ValidateToken(ctx, tokenString)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, claims.UserID)
	assert.Equal(t, actor.Username, claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	// The claims rebuild the acting identity, role included.
	rebuilt := claims.Actor()
	assert.True(t, rebuilt.IsAdmin())
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	actor := adminActor()
	ctx := context.Background()

	tokenString, err := svc.GenerateRefreshToken(ctx, actor)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, tokenString)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
	assert.Equal(t, actor.ID, claims.UserID)
}

func TestTokenTypeConfusionRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	actor := adminActor()
	ctx := context.Background()

	access, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, actor)
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	actor := adminActor()
	ctx := context.Background()

	issuedAt := time.Now().Add(-1 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }

	tokenString, err := svc.GenerateToken(ctx, actor)
	require.NoError(t, err)

	// Validate well past the lifetime plus clock skew.
	svc.timeFunc = time.Now

	_, err = svc.ValidateToken(ctx, tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTamperedTokenRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	tokenString, err := svc.GenerateToken(ctx, adminActor())
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"
	_, err = svc.ValidateToken(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSignedWithOtherKeyRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "a-different-secret-also-32-chars-minimum!"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	ctx := context.Background()
	foreign, err := other.GenerateToken(ctx, adminActor())
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateTokenRequiresActor(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.GenerateToken(context.Background(), nil)
	assert.Error(t, err)
}

func TestBcryptVerifierRoundTrip(t *testing.T) {
	t.Parallel()

	verifier := NewBcryptVerifier()
	hashed, err := verifier.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hashed)

	assert.NoError(t, verifier.Compare(hashed, "correct horse battery staple"))
	assert.Error(t, verifier.Compare(hashed, "wrong password"))
}
