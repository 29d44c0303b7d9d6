// Package recidivism loads the CPF recidivism ranking page by page and
// derives the chart series, cards and detail panel shown for it.
package recidivism

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

const (
	msgLoadFailed = "Erro ao carregar dados de reincidência."
	msgEmpty      = "Nenhuma reincidência encontrada."
)

// ErrNoSelection is returned by Select when the index is outside the
// current page.
var ErrNoSelection = errors.New("recidivism: index out of range")

// Fetcher loads one page of the ranking. *api.Client satisfies it.
type Fetcher interface {
	RecidivismByCPF(ctx context.Context, page, limit int) (*domain.Page[domain.RecidivismRecord], error)
}

// Bar is one bar of the occurrences chart.
type Bar struct {
	Name  string
	Count int
}

// Card is the summary tile of one offender.
type Card struct {
	CPF        string
	Nome       string
	Quantidade int
	Tier       domain.RiskTier
}

// Detail is the panel opened from a card.
type Detail struct {
	Record domain.RecidivismRecord
	CPF    string
	BOs    []string
	Tier   domain.RiskTier
}

// Aggregator holds the ranking page on screen.
type Aggregator struct {
	api    Fetcher
	logger *slog.Logger

	mu   sync.Mutex
	page domain.Page[domain.RecidivismRecord]
}

// New creates an Aggregator with an empty page.
func New(api Fetcher, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		api:    api,
		logger: logger,
		page:   domain.EmptyPage[domain.RecidivismRecord](1, domain.RecidivismPageSize),
	}
}

// FetchPage loads page with the fixed page size. Rows keep the server's
// order. A failed load clears the current page.
func (a *Aggregator) FetchPage(ctx context.Context, page int) (domain.Page[domain.RecidivismRecord], notify.Notification) {
	if page < 1 {
		page = 1
	}

	result, err := a.api.RecidivismByCPF(ctx, page, domain.RecidivismPageSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.logger.Warn("failed to load recidivism page", "page", page, "error", err)
		a.page = domain.EmptyPage[domain.RecidivismRecord](page, domain.RecidivismPageSize)
		return a.page, notify.Error(msgLoadFailed)
	}

	a.page = domain.NewPage(result.Data, result.TotalCount, result.Page, result.Limit)
	if result.TotalCount == 0 {
		return a.page, notify.Info(msgEmpty)
	}
	return a.page, notify.Notification{}
}

// Page returns the page on screen.
func (a *Aggregator) Page() domain.Page[domain.RecidivismRecord] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page
}

// Series returns one bar per record of the current page.
func (a *Aggregator) Series() []Bar {
	a.mu.Lock()
	defer a.mu.Unlock()

	bars := make([]Bar, 0, len(a.page.Data))
	for _, r := range a.page.Data {
		bars = append(bars, Bar{Name: r.NomeCompleto, Count: r.Quantidade})
	}
	return bars
}

// Cards returns one card per record of the current page.
func (a *Aggregator) Cards() []Card {
	a.mu.Lock()
	defer a.mu.Unlock()

	cards := make([]Card, 0, len(a.page.Data))
	for _, r := range a.page.Data {
		cards = append(cards, Card{
			CPF:        field.FormatCPF(r.CPF),
			Nome:       r.NomeCompleto,
			Quantidade: r.Quantidade,
			Tier:       r.Tier(),
		})
	}
	return cards
}

// Select opens the detail of the i-th record of the current page.
func (a *Aggregator) Select(i int) (Detail, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i < 0 || i >= len(a.page.Data) {
		return Detail{}, fmt.Errorf("%w: %d", ErrNoSelection, i)
	}
	return NewDetail(a.page.Data[i]), nil
}

// NewDetail builds the detail panel of one record.
func NewDetail(r domain.RecidivismRecord) Detail {
	return Detail{
		Record: r,
		CPF:    field.FormatCPF(r.CPF),
		BOs:    r.BOs(),
		Tier:   r.Tier(),
	}
}
