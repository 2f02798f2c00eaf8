package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskledger/taskledger-api/internal/config"
	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/service"
	"github.com/taskledger/taskledger-api/internal/service/auth"
)

// Inert stubs so the router can be built without a database.

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, username, password string) (*domain.User, *service.TokenPair, error) {
	return nil, nil, auth.ErrInvalidCredentials
}

func (stubUserService) Login(ctx context.Context, username, password string) (*domain.User, *service.TokenPair, error) {
	return nil, nil, auth.ErrInvalidCredentials
}

func (stubUserService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	return nil, auth.ErrInvalidToken
}

type stubItemService struct{}

func (stubItemService) Create(ctx context.Context, actor *domain.Actor, input service.CreateItemInput) (*domain.Item, error) {
	return nil, nil
}

func (stubItemService) Get(ctx context.Context, actor *domain.Actor, id uuid.UUID) (*domain.Item, error) {
	return nil, nil
}

func (stubItemService) List(ctx context.Context, actor *domain.Actor, filter service.ItemFilter) ([]*domain.Item, error) {
	return nil, nil
}

func (stubItemService) Update(ctx context.Context, actor *domain.Actor, id uuid.UUID, input service.UpdateItemInput) (*domain.Item, error) {
	return nil, nil
}

func (stubItemService) ToggleCompleted(ctx context.Context, actor *domain.Actor, id uuid.UUID) (*domain.Item, error) {
	return nil, nil
}

func (stubItemService) Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error {
	return nil
}

func (stubItemService) BulkDelete(ctx context.Context, actor *domain.Actor, ids []uuid.UUID) (*service.BulkDeleteResult, error) {
	return &service.BulkDeleteResult{}, nil
}

func (stubItemService) SeedSamples(ctx context.Context, actor *domain.Actor) ([]*domain.Item, error) {
	return nil, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Generate(ctx context.Context, actor *domain.Actor) (*domain.DashboardReport, error) {
	return nil, nil
}

type stubCategoryService struct{}

func (stubCategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return nil, nil
}

func (stubCategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	return nil, nil
}

type stubAuditService struct{}

func (stubAuditService) ListRecent(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	return nil, nil
}

func testApplication(t *testing.T) *application {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "this-is-a-test-secret-of-32-chars!!",
		AccessTokenLifetime:  15 * time.Minute,
		RefreshTokenLifetime: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to build JWT service: %v", err)
	}

	return &application{
		config:           &config.Config{Server: config.ServerConfig{Port: 8080}},
		logger:           slog.Default(),
		jwtService:       jwtService,
		userService:      stubUserService{},
		itemService:      stubItemService{},
		dashboardService: stubDashboardService{},
		categoryService:  stubCategoryService{},
		auditService:     stubAuditService{},
	}
}

func TestRouterHealthEndpoint(t *testing.T) {
	app := testApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	app := testApplication(t)
	router := app.setupRouter()

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/items"},
		{http.MethodPost, "/api/items"},
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/categories"},
		{http.MethodGet, "/api/audit-logs"},
		{http.MethodPost, "/api/items/samples"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.path)
	}
}

func TestRouterAttachmentRoutesAbsentWithoutBlobStore(t *testing.T) {
	app := testApplication(t)
	router := app.setupRouter()

	// With no attachment service configured the route is never
	// registered, so chi falls through to its NotFound handler.
	req := httptest.NewRequest(http.MethodGet, "/api/items/"+uuid.NewString()+"/attachments", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouterPublicAuthRoutes(t *testing.T) {
	app := testApplication(t)
	router := app.setupRouter()

	// A malformed body should reach the handler and come back 400, not 401.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
