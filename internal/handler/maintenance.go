package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/fraudbase/internal/service"
)

// MaintenanceHandler exposes data cleanup and B.O. statistics.
type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	logger             *slog.Logger
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(maintenanceService service.MaintenanceService, logger *slog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// RegisterRoutes registers the maintenance routes.
//
// Routes:
// - POST /api/clean-duplicates -> CleanDuplicates (admin)
// - GET  /api/bo-statistics    -> BOStatistics
func (h *MaintenanceHandler) RegisterRoutes(mux *http.ServeMux, requireUser, requireAdmin func(http.Handler) http.Handler) {
	mux.Handle("POST /api/clean-duplicates", requireAdmin(http.HandlerFunc(h.CleanDuplicates)))
	mux.Handle("GET /api/bo-statistics", requireUser(http.HandlerFunc(h.BOStatistics)))
}

func (h *MaintenanceHandler) CleanDuplicates(w http.ResponseWriter, r *http.Request) {
	result, err := h.maintenanceService.CleanDuplicates(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *MaintenanceHandler) BOStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.maintenanceService.BOStatistics(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
