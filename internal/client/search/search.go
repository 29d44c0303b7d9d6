package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

// DefaultLimit is the page size of a new Searcher.
const DefaultLimit = 10

// Messages shown after a search.
const (
	msgInvalidFilters = "Informe ao menos um filtro válido: nome ou B.O. com 3 caracteres, CPF com 11 dígitos ou telefone com 3 caracteres."
	msgNoResults      = "Nenhum resultado encontrado para os filtros informados."
	msgFound          = "%d resultado(s) encontrado(s)."
	msgFailed         = "Erro ao buscar envolvidos. Tente novamente."
)

// State is the lifecycle of the last search.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Kind classifies the outcome of one call.
type Kind int

const (
	// KindSuccess: results were published.
	KindSuccess Kind = iota
	// KindWarning: the filters were invalid and nothing was sent.
	KindWarning
	// KindFailed: the request failed and the results were reset.
	KindFailed
	// KindStale: a newer search was issued before this one completed;
	// its response was discarded.
	KindStale
)

// Outcome is what one Search, ChangePage or ChangePageSize call produced.
type Outcome struct {
	Kind   Kind
	Seq    uint64
	Page   domain.Page[domain.Person]
	Notice notify.Notification
	Err    error
}

// Fetcher runs the search request. *api.Client satisfies it.
type Fetcher interface {
	SearchPersons(ctx context.Context, rawQuery string) (*domain.Page[domain.Person], error)
}

// Searcher holds the state of one search screen. It is safe for
// concurrent use; overlapping searches are not cancelled, instead every
// request gets a sequence number and only the latest one may publish.
// The sequence number and the filters it was issued for change together.
type Searcher struct {
	api    Fetcher
	logger *slog.Logger

	mu      sync.Mutex
	seq     uint64
	state   State
	filters field.FilterSet
	cursor  Cursor
	results domain.Page[domain.Person]
	notice  notify.Notification
}

// New creates an idle Searcher with page 1 and DefaultLimit.
func New(api Fetcher, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		api:     api,
		logger:  logger,
		cursor:  Cursor{Page: 1, Limit: DefaultLimit},
		results: domain.EmptyPage[domain.Person](1, DefaultLimit),
	}
}

// Search validates fs and, when valid, fetches the page. Invalid filters
// return a warning without touching the network or the current results.
func (s *Searcher) Search(ctx context.Context, fs field.FilterSet, page, limit int) Outcome {
	if !fs.Valid() {
		out := Outcome{Kind: KindWarning, Notice: notify.Warn(msgInvalidFilters)}
		s.mu.Lock()
		s.notice = out.Notice
		out.Page = s.results
		s.mu.Unlock()
		return out
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	cursor := Cursor{Page: page, Limit: limit}
	query := BuildQuery(fs, cursor).Encode()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = StateLoading
	s.filters = fs
	s.cursor = cursor
	s.mu.Unlock()

	result, err := s.api.SearchPersons(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.logger.Debug("discarding stale search response", "seq", seq, "latest", s.seq)
		return Outcome{Kind: KindStale, Seq: seq, Page: s.results, Err: err}
	}

	if err != nil {
		s.logger.Warn("search failed", "error", err)
		s.state = StateFailed
		s.results = domain.EmptyPage[domain.Person](cursor.Page, cursor.Limit)
		s.notice = notify.Error(msgFailed)
		return Outcome{Kind: KindFailed, Seq: seq, Page: s.results, Notice: s.notice, Err: err}
	}

	s.state = StateSuccess
	s.results = domain.NewPage(result.Data, result.TotalCount, result.Page, result.Limit)
	if result.TotalCount == 0 {
		s.notice = notify.Info(msgNoResults)
	} else {
		s.notice = notify.Success(fmt.Sprintf(msgFound, result.TotalCount))
	}
	return Outcome{Kind: KindSuccess, Seq: seq, Page: s.results, Notice: s.notice}
}

// ChangePage re-runs the last filter set at page. It is a no-op warning
// when the last filter set is invalid.
func (s *Searcher) ChangePage(ctx context.Context, page int) Outcome {
	s.mu.Lock()
	fs, limit := s.filters, s.cursor.Limit
	s.mu.Unlock()
	return s.Search(ctx, fs, page, limit)
}

// ChangePageSize re-runs the last filter set with a new page size from
// page 1.
func (s *Searcher) ChangePageSize(ctx context.Context, limit int) Outcome {
	s.mu.Lock()
	fs := s.filters
	s.mu.Unlock()
	return s.Search(ctx, fs, 1, limit)
}

// State returns the lifecycle state of the latest search.
func (s *Searcher) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Results returns the current page.
func (s *Searcher) Results() domain.Page[domain.Person] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Notice returns the last notification.
func (s *Searcher) Notice() notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Filters returns the last filter set that was sent.
func (s *Searcher) Filters() field.FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}
