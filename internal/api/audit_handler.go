package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taskledger/taskledger-api/internal/api/shared"
	"github.com/taskledger/taskledger-api/internal/service"
)

// Audit log listing limits.
const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditHandler exposes the append-only audit trail to administrators.
type AuditHandler struct {
	auditService service.AuditService
	logger       *slog.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService service.AuditService, logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{
		auditService: auditService,
		logger:       logger.With(slog.String("component", "audit_handler")),
	}
}

// List handles GET /audit-logs (admin only, enforced by routing). The
// optional limit query parameter caps how many records come back, newest
// first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	records, err := h.auditService.ListRecent(r.Context(), limit)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuditLogResponse{
		Records: records,
		Count:   len(records),
	})
}
