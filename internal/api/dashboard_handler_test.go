package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/service"
)

type mockDashboardService struct {
	generateFn func(ctx context.Context, actor *domain.Actor) (*domain.DashboardReport, error)
}

func (m *mockDashboardService) Generate(ctx context.Context, actor *domain.Actor) (*domain.DashboardReport, error) {
	return m.generateFn(ctx, actor)
}

func TestDashboardHandlerGet(t *testing.T) {
	actor := makeActor(domain.RoleUser)

	t.Run("Success", func(t *testing.T) {
		report := &domain.DashboardReport{
			Total:       10,
			Completed:   4,
			Pending:     6,
			DueSoon:     2,
			GeneratedAt: time.Now().UTC(),
		}
		mockService := &mockDashboardService{
			generateFn: func(ctx context.Context, got *domain.Actor) (*domain.DashboardReport, error) {
				assert.Equal(t, actor.ID, got.ID)
				return report, nil
			},
		}
		handler := NewDashboardHandler(mockService, nil)

		req := requestWithActor(t, http.MethodGet, "/dashboard", nil, actor)
		rr := httptest.NewRecorder()

		handler.Get(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got domain.DashboardReport
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, int64(10), got.Total)
		assert.Equal(t, int64(6), got.Pending)
	})

	t.Run("Aggregation Failure", func(t *testing.T) {
		mockService := &mockDashboardService{
			generateFn: func(ctx context.Context, actor *domain.Actor) (*domain.DashboardReport, error) {
				return nil, service.ErrAggregationFailed
			},
		}
		handler := NewDashboardHandler(mockService, nil)

		req := requestWithActor(t, http.MethodGet, "/dashboard", nil, actor)
		rr := httptest.NewRecorder()

		handler.Get(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to build dashboard report")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		handler := NewDashboardHandler(&mockDashboardService{}, nil)

		req := requestWithActor(t, http.MethodGet, "/dashboard", nil, nil)
		rr := httptest.NewRecorder()

		handler.Get(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
