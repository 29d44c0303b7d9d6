package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/fraudbase/internal/cache"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/repository"
	"github.com/DukeRupert/fraudbase/internal/worker"
)

// DashboardService serves aggregate statistics. Sex, station and total
// counts come from materialized views refreshed after each import; the
// age brackets are computed live because they depend on the current date.
type DashboardService interface {
	VictimsBySex(ctx context.Context) ([]domain.SexCount, error)
	VictimsByAgeBracket(ctx context.Context) ([]domain.AgeBracketCount, error)
	TotalBOs(ctx context.Context) (domain.Count, error)
	TotalOffenders(ctx context.Context) (domain.Count, error)
	TotalVictims(ctx context.Context) (domain.Count, error)
	OffendersByStation(ctx context.Context) ([]domain.StationCount, error)

	// RefreshViews recomputes every materialized view and drops the
	// cached counts.
	RefreshViews(ctx context.Context) error

	// ScheduleRefresh queues a background refresh and returns the job ID.
	ScheduleRefresh(ctx context.Context, reason string) (uuid.UUID, error)
}

const countsCacheKey = "dashboard:counts"

type dashboardService struct {
	queries *repository.Queries
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewDashboardService creates a new DashboardService instance. The three
// totals share one cached row, valid for ttl or until the next refresh.
func NewDashboardService(queries *repository.Queries, c cache.Cache, ttl time.Duration, logger *slog.Logger) DashboardService {
	return &dashboardService{
		queries: queries,
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *dashboardService) VictimsBySex(ctx context.Context) ([]domain.SexCount, error) {
	rows, err := s.queries.VictimsBySex(ctx)
	if err != nil {
		return nil, domain.Internal(err, "DashboardService.VictimsBySex", "Failed to load statistics")
	}
	return nonNil(rows), nil
}

func (s *dashboardService) VictimsByAgeBracket(ctx context.Context) ([]domain.AgeBracketCount, error) {
	rows, err := s.queries.VictimsByAgeBracket(ctx)
	if err != nil {
		return nil, domain.Internal(err, "DashboardService.VictimsByAgeBracket", "Failed to load statistics")
	}
	return nonNil(rows), nil
}

func (s *dashboardService) TotalBOs(ctx context.Context) (domain.Count, error) {
	counts, err := s.generalCounts(ctx)
	if err != nil {
		return domain.Count{}, domain.Internal(err, "DashboardService.TotalBOs", "Failed to load statistics")
	}
	return domain.Count{Quantidade: int(counts.TotalBOs)}, nil
}

func (s *dashboardService) TotalOffenders(ctx context.Context) (domain.Count, error) {
	counts, err := s.generalCounts(ctx)
	if err != nil {
		return domain.Count{}, domain.Internal(err, "DashboardService.TotalOffenders", "Failed to load statistics")
	}
	return domain.Count{Quantidade: int(counts.TotalInfratores)}, nil
}

func (s *dashboardService) TotalVictims(ctx context.Context) (domain.Count, error) {
	counts, err := s.generalCounts(ctx)
	if err != nil {
		return domain.Count{}, domain.Internal(err, "DashboardService.TotalVictims", "Failed to load statistics")
	}
	return domain.Count{Quantidade: int(counts.TotalVitimas)}, nil
}

func (s *dashboardService) OffendersByStation(ctx context.Context) ([]domain.StationCount, error) {
	rows, err := s.queries.OffendersByStation(ctx)
	if err != nil {
		return nil, domain.Internal(err, "DashboardService.OffendersByStation", "Failed to load statistics")
	}
	return nonNil(rows), nil
}

func (s *dashboardService) RefreshViews(ctx context.Context) error {
	const op = "DashboardService.RefreshViews"

	for _, view := range repository.DashboardViews {
		if err := s.queries.RefreshDashboardView(ctx, view); err != nil {
			return domain.Internal(err, op, "Failed to refresh "+view)
		}
		s.logger.Debug("materialized view refreshed", "view", view)
	}

	if err := s.cache.Delete(ctx, countsCacheKey); err != nil {
		s.logger.Warn("cache delete failed", "key", countsCacheKey, "error", err)
	}
	return nil
}

func (s *dashboardService) ScheduleRefresh(ctx context.Context, reason string) (uuid.UUID, error) {
	job, err := worker.EnqueueRefreshDashboardViews(ctx, s.queries, reason)
	if err != nil {
		return uuid.Nil, domain.Internal(err, "DashboardService.ScheduleRefresh", "Failed to schedule refresh")
	}
	s.logger.Info("dashboard refresh scheduled", "job_id", job.ID, "reason", reason)
	return job.ID, nil
}

func (s *dashboardService) generalCounts(ctx context.Context) (repository.GeneralCountsRow, error) {
	return cache.GetOrLoad(ctx, s.cache, s.logger, countsCacheKey, s.ttl, s.queries.GeneralCounts)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
