package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DukeRupert/fraudbase/internal/worker"
)

// ViewRefresher recomputes the dashboard's materialized views.
type ViewRefresher interface {
	RefreshViews(ctx context.Context) error
}

// RefreshViewsResult is stored in the job's result column.
type RefreshViewsResult struct {
	Reason     string `json:"reason"`
	DurationMS int64  `json:"duration_ms"`
}

// RefreshViewsHandler refreshes dashboard views after an import or on
// demand. Several queued refreshes are harmless; each one recomputes
// everything.
type RefreshViewsHandler struct {
	refresher ViewRefresher
	logger    *slog.Logger
}

// NewRefreshViewsHandler creates a new handler for view refresh jobs.
func NewRefreshViewsHandler(refresher ViewRefresher, logger *slog.Logger) *RefreshViewsHandler {
	return &RefreshViewsHandler{
		refresher: refresher,
		logger:    logger,
	}
}

// Type returns the job type identifier.
func (h *RefreshViewsHandler) Type() string {
	return worker.JobTypeRefreshDashboardViews
}

// Handle executes the refresh.
func (h *RefreshViewsHandler) Handle(ctx context.Context, payload []byte) (any, error) {
	var p worker.RefreshDashboardViewsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
		}
	}

	start := time.Now()
	if err := h.refresher.RefreshViews(ctx); err != nil {
		return nil, fmt.Errorf("refresh views: %w", err)
	}
	elapsed := time.Since(start)

	h.logger.Info("Dashboard views refreshed", "reason", p.Reason, "duration", elapsed)

	return RefreshViewsResult{Reason: p.Reason, DurationMS: elapsed.Milliseconds()}, nil
}
