package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/DukeRupert/fraudbase/internal/cache"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/repository"
)

// LookupService serves the auxiliary lists used by registration forms.
// The lists change rarely, so results are cached.
type LookupService interface {
	Municipios(ctx context.Context, uf string) ([]domain.Municipality, error)
	UFs(ctx context.Context) ([]string, error)
	Paises(ctx context.Context) ([]domain.LookupItem, error)
	Delegacias(ctx context.Context) ([]domain.LookupItem, error)
	Bancos(ctx context.Context) ([]domain.LookupItem, error)
}

type lookupService struct {
	queries *repository.Queries
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewLookupService creates a new LookupService instance.
func NewLookupService(queries *repository.Queries, c cache.Cache, ttl time.Duration, logger *slog.Logger) LookupService {
	return &lookupService{
		queries: queries,
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *lookupService) Municipios(ctx context.Context, uf string) ([]domain.Municipality, error) {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	return loadLookup(ctx, s, "Municipios", "lookup:municipios:"+uf, func(ctx context.Context) ([]domain.Municipality, error) {
		return s.queries.ListMunicipios(ctx, uf)
	})
}

func (s *lookupService) UFs(ctx context.Context) ([]string, error) {
	return loadLookup(ctx, s, "UFs", "lookup:ufs", s.queries.ListUFs)
}

func (s *lookupService) Paises(ctx context.Context) ([]domain.LookupItem, error) {
	return loadLookup(ctx, s, "Paises", "lookup:paises", s.queries.ListPaises)
}

func (s *lookupService) Delegacias(ctx context.Context) ([]domain.LookupItem, error) {
	return loadLookup(ctx, s, "Delegacias", "lookup:delegacias", s.queries.ListDelegacias)
}

func (s *lookupService) Bancos(ctx context.Context) ([]domain.LookupItem, error) {
	return loadLookup(ctx, s, "Bancos", "lookup:bancos", s.queries.ListBancos)
}

// loadLookup reads through the cache and never returns a nil slice.
func loadLookup[T any](
	ctx context.Context,
	s *lookupService,
	method, key string,
	load func(context.Context) ([]T, error),
) ([]T, error) {
	op := "LookupService." + method

	items, err := cache.GetOrLoad(ctx, s.cache, s.logger, key, s.ttl, load)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to load list")
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
