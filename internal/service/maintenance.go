package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/repository"
)

// recentBOLimit is how many report numbers BOStatistics lists.
const recentBOLimit = 5

// MaintenanceService holds data-quality operations.
type MaintenanceService interface {
	// CleanDuplicates deletes records identical in every data column,
	// keeping one of each group.
	CleanDuplicates(ctx context.Context) (*domain.CleanupResult, error)

	// BOStatistics reports the newest report numbers and the oldest one.
	BOStatistics(ctx context.Context) (*domain.BOStatistics, error)
}

type maintenanceService struct {
	db      *sql.DB
	queries *repository.Queries
	logger  *slog.Logger
}

// NewMaintenanceService creates a new MaintenanceService instance.
func NewMaintenanceService(db *sql.DB, queries *repository.Queries, logger *slog.Logger) MaintenanceService {
	return &maintenanceService{
		db:      db,
		queries: queries,
		logger:  logger,
	}
}

func (s *maintenanceService) CleanDuplicates(ctx context.Context) (*domain.CleanupResult, error) {
	const op = "MaintenanceService.CleanDuplicates"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	before, err := qtx.CountEnvolvidos(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count records")
	}

	removed, err := qtx.DeleteDuplicateEnvolvidos(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to delete duplicates")
	}

	after, err := qtx.CountEnvolvidos(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count records")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Internal(err, op, "Failed to commit cleanup")
	}

	s.logger.Info("duplicate records removed", "before", before, "after", after, "removed", removed)

	return &domain.CleanupResult{
		TotalAntes:  int(before),
		TotalDepois: int(after),
		RowsRemoved: int(removed),
	}, nil
}

func (s *maintenanceService) BOStatistics(ctx context.Context) (*domain.BOStatistics, error) {
	const op = "MaintenanceService.BOStatistics"

	recent, err := s.queries.ListNewestBOs(ctx, recentBOLimit)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list report numbers")
	}

	oldest, err := s.queries.GetOldestBO(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to find oldest report number")
	}

	return &domain.BOStatistics{
		RecentBOs: nonNil(recent),
		OldestBO:  oldest,
	}, nil
}
