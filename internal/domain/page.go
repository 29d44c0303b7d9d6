package domain

import "math"

// Page is one page of a paginated listing, in the wire shape the API returns.
type Page[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds a page and derives TotalPages. A nil slice is replaced
// with an empty one so it encodes as [].
func NewPage[T any](data []T, total, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}

// EmptyPage returns a page with no rows.
func EmptyPage[T any](page, limit int) Page[T] {
	return NewPage[T](nil, 0, page, limit)
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Index returns the zero-based page index used by pager widgets.
func (p Page[T]) Index() int {
	if p.Page < 1 {
		return 0
	}
	return p.Page - 1
}

// Paginated reports whether a pager should be shown at all.
func (p Page[T]) Paginated() bool {
	return p.TotalPages > 1
}

// Pagination defaults and bounds.
const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 100
)

// ClampPaging normalizes page and limit query values. The page is capped so
// the row offset fits an int32 query parameter.
func ClampPaging(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		page = maxPage
	}
	return page, limit
}
