package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/fraudbase/internal/service"
)

// DashboardHandler serves the dashboard statistics.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard routes. Refreshing the views is
// admin-only.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, requireUser, requireAdmin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/dashboard/vitimas-por-sexo", requireUser(http.HandlerFunc(h.VictimsBySex)))
	mux.Handle("GET /api/dashboard/vitimas-por-faixa-etaria", requireUser(http.HandlerFunc(h.VictimsByAgeBracket)))
	mux.Handle("GET /api/dashboard/quantidade-bos", requireUser(http.HandlerFunc(h.TotalBOs)))
	mux.Handle("GET /api/dashboard/quantidade-infratores", requireUser(http.HandlerFunc(h.TotalOffenders)))
	mux.Handle("GET /api/dashboard/quantidade-vitimas", requireUser(http.HandlerFunc(h.TotalVictims)))
	mux.Handle("GET /api/dashboard/infratores-por-delegacia", requireUser(http.HandlerFunc(h.OffendersByStation)))
	mux.Handle("POST /api/refresh-views", requireAdmin(http.HandlerFunc(h.RefreshViews)))
}

func (h *DashboardHandler) VictimsBySex(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboardService.VictimsBySex(r.Context())
	respondList(w, r, h.logger, items, err)
}

func (h *DashboardHandler) VictimsByAgeBracket(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboardService.VictimsByAgeBracket(r.Context())
	respondList(w, r, h.logger, items, err)
}

func (h *DashboardHandler) OffendersByStation(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboardService.OffendersByStation(r.Context())
	respondList(w, r, h.logger, items, err)
}

func (h *DashboardHandler) TotalBOs(w http.ResponseWriter, r *http.Request) {
	count, err := h.dashboardService.TotalBOs(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

func (h *DashboardHandler) TotalOffenders(w http.ResponseWriter, r *http.Request) {
	count, err := h.dashboardService.TotalOffenders(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

func (h *DashboardHandler) TotalVictims(w http.ResponseWriter, r *http.Request) {
	count, err := h.dashboardService.TotalVictims(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// RefreshViews queues a background refresh of the materialized views.
func (h *DashboardHandler) RefreshViews(w http.ResponseWriter, r *http.Request) {
	jobID, err := h.dashboardService.ScheduleRefresh(r.Context(), "manual")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID.String()})
}
