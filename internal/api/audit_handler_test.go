package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskledger/taskledger-api/internal/domain"
)

type mockAuditService struct {
	listRecentFn func(ctx context.Context, limit int) ([]*domain.AuditRecord, error)
}

func (m *mockAuditService) ListRecent(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	return m.listRecentFn(ctx, limit)
}

func auditRecord(action string) *domain.AuditRecord {
	itemID := uuid.New()
	record, err := domain.NewAuditRecord(action, &itemID, "casey")
	if err != nil {
		panic(err)
	}
	return record
}

func TestAuditHandlerList(t *testing.T) {
	t.Run("Default Limit", func(t *testing.T) {
		var captured int
		mockService := &mockAuditService{
			listRecentFn: func(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
				captured = limit
				return []*domain.AuditRecord{auditRecord(domain.AuditActionCreate), auditRecord(domain.AuditActionDelete)}, nil
			},
		}
		handler := NewAuditHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodGet, "/audit-logs", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, defaultAuditLimit, captured)

		var resp AuditLogResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, domain.AuditActionCreate, resp.Records[0].Action)
	})

	t.Run("Explicit Limit", func(t *testing.T) {
		var captured int
		mockService := &mockAuditService{
			listRecentFn: func(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
				captured = limit
				return nil, nil
			},
		}
		handler := NewAuditHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodGet, "/audit-logs?limit=5", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 5, captured)
	})

	t.Run("Bad Limit", func(t *testing.T) {
		handler := NewAuditHandler(&mockAuditService{}, nil)

		for _, target := range []string{
			"/audit-logs?limit=0",
			"/audit-logs?limit=-3",
			"/audit-logs?limit=9999",
			"/audit-logs?limit=abc",
		} {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rr := httptest.NewRecorder()

			handler.List(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code, "target %s", target)
		}
	})
}
