package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
	"github.com/taskledger/taskledger-api/internal/service/auth"
	"github.com/taskledger/taskledger-api/internal/store"
)

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService handles account registration and credential exchange.
type UserService interface {
	// Register creates a new account and returns its token pair.
	Register(ctx context.Context, username, password string) (*domain.User, *TokenPair, error)

	// Login exchanges credentials for a token pair. Unknown usernames and
	// wrong passwords are indistinguishable to the caller.
	Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error)

	// Refresh exchanges a valid refresh token for a fresh token pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type userServiceImpl struct {
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if jwtService == nil {
		return nil, domain.NewValidationError("jwtService", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		userStore:  userStore,
		hasher:     hasher,
		verifier:   verifier,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		return nil, nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = "" // plaintext is not needed past this point

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))

	pair, err := s.issueTokens(ctx, user.Actor())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same error as a bad password, to avoid username probing.
			return nil, nil, auth.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch",
			slog.String("username", username))
		return nil, nil, auth.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user.Actor())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh implements UserService.Refresh
//
// The account is re-read, so role changes and deletions take effect at
// the next refresh instead of riding the old claims for a week.
func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}

	return s.issueTokens(ctx, user.Actor())
}

func (s *userServiceImpl) issueTokens(ctx context.Context, actor *domain.Actor) (*TokenPair, error) {
	access, err := s.jwtService.GenerateToken(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.jwtService.GenerateRefreshToken(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
