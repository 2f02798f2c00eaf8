package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/service/auth"
	"github.com/taskledger/taskledger-api/internal/store"
)

// mockUserStore is a testify mock for store.UserStore.
type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockJWTService is a testify mock for auth.JWTService.
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(ctx context.Context, actor *domain.Actor) (string, error) {
	args := m.Called(ctx, actor)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*auth.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, actor *domain.Actor) (string, error) {
	args := m.Called(ctx, actor)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*auth.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

type userServiceFixture struct {
	service UserService
	users   *mockUserStore
	jwt     *mockJWTService
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	f := &userServiceFixture{
		users: new(mockUserStore),
		jwt:   new(mockJWTService),
	}

	verifier := auth.NewBcryptVerifier()
	svc, err := NewUserService(f.users, verifier, verifier, f.jwt, nil)
	require.NoError(t, err)
	f.service = svc
	return f
}

func (f *userServiceFixture) expectTokenPair() {
	f.jwt.On("GenerateToken", mock.Anything, mock.AnythingOfType("*domain.Actor")).
		Return("access-token", nil)
	f.jwt.On("GenerateRefreshToken", mock.Anything, mock.AnythingOfType("*domain.Actor")).
		Return("refresh-token", nil)
}

func storedUser(t *testing.T, username, password string) *domain.User {
	t.Helper()

	hashed, err := auth.NewBcryptVerifier().Hash(password)
	require.NoError(t, err)

	user, err := domain.NewUser(username, password)
	require.NoError(t, err)
	user.HashedPassword = hashed
	user.Password = ""
	return user
}

func TestUserServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user with hashed password and default role", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		f.expectTokenPair()
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "alice" &&
				u.Password == "" &&
				u.HashedPassword != "" &&
				u.HashedPassword != "s3cret-password" &&
				u.Role == domain.RoleUser
		})).Return(nil)

		user, pair, err := f.service.Register(context.Background(), "alice", "s3cret-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "access-token", pair.AccessToken)
		assert.Equal(t, "refresh-token", pair.RefreshToken)
		f.users.AssertExpectations(t)
	})

	t.Run("rejects short passwords before touching the store", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)

		_, _, err := f.service.Register(context.Background(), "alice", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate username surfaces the store error", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		f.users.On("Create", mock.Anything, mock.Anything).Return(store.ErrUsernameExists)

		_, _, err := f.service.Register(context.Background(), "alice", "s3cret-password")
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})
}

func TestUserServiceLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials yield a token pair", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		f.expectTokenPair()
		user := storedUser(t, "alice", "s3cret-password")
		f.users.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		got, pair, err := f.service.Login(context.Background(), "alice", "s3cret-password")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "access-token", pair.AccessToken)
	})

	t.Run("wrong password and unknown username look identical", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		user := storedUser(t, "alice", "s3cret-password")
		f.users.On("GetByUsername", mock.Anything, "alice").Return(user, nil)
		f.users.On("GetByUsername", mock.Anything, "nobody").Return(nil, store.ErrUserNotFound)

		_, _, wrongPass := f.service.Login(context.Background(), "alice", "not-the-password")
		_, _, noUser := f.service.Login(context.Background(), "nobody", "s3cret-password")

		assert.ErrorIs(t, wrongPass, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, noUser, auth.ErrInvalidCredentials)
		assert.Equal(t, wrongPass.Error(), noUser.Error())
	})
}

func TestUserServiceRefresh(t *testing.T) {
	t.Parallel()

	t.Run("valid refresh token issues a new pair from current account state", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		f.expectTokenPair()
		user := storedUser(t, "alice", "s3cret-password")
		user.Role = domain.RoleAdmin // promoted since the token was issued

		f.jwt.On("ValidateRefreshToken", mock.Anything, "old-refresh").Return(&auth.Claims{
			UserID:    user.ID,
			Username:  user.Username,
			Role:      domain.RoleUser,
			TokenType: "refresh",
		}, nil)
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		pair, err := f.service.Refresh(context.Background(), "old-refresh")
		require.NoError(t, err)
		assert.Equal(t, "access-token", pair.AccessToken)

		// New tokens reflect the refreshed role, not the stale claims.
		f.jwt.AssertCalled(t, "GenerateToken", mock.Anything, mock.MatchedBy(func(a *domain.Actor) bool {
			return a.Role == domain.RoleAdmin
		}))
	})

	t.Run("invalid refresh token is rejected", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		f.jwt.On("ValidateRefreshToken", mock.Anything, "garbage").
			Return(nil, auth.ErrInvalidToken)

		_, err := f.service.Refresh(context.Background(), "garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted account invalidates the refresh token", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		userID := uuid.New()
		f.jwt.On("ValidateRefreshToken", mock.Anything, "orphaned").Return(&auth.Claims{
			UserID: userID, TokenType: "refresh",
		}, nil)
		f.users.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)

		_, err := f.service.Refresh(context.Background(), "orphaned")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
