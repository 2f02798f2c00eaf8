package api

import (
	"log/slog"
	"net/http"

	"github.com/taskledger/taskledger-api/internal/api/shared"
	"github.com/taskledger/taskledger-api/internal/service"
)

// DashboardHandler serves the aggregated item statistics report.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Get handles GET /dashboard. The report is always scoped to the caller's
// own items, admins included.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	report, err := h.dashboardService.Generate(r.Context(), actor)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
