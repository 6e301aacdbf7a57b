package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/alphabot-ai/remarks/internal/apperr"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 15
	MaxPerPage     = 50
)

// ListQuery selects a page of comments. Zero Page or PerPage mean the
// defaults.
type ListQuery struct {
	Page    int
	PerPage int
	Filter  string
}

// Normalize applies defaults and range checks.
func (q *ListQuery) Normalize() error {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PerPage == 0 {
		q.PerPage = DefaultPerPage
	}
	q.Filter = strings.TrimSpace(q.Filter)
	var v apperr.Validation
	v.Check(q.Page >= 1, "page", "the page must be at least 1")
	v.Check(q.PerPage >= 1 && q.PerPage <= MaxPerPage, "perPage", "the perPage must be between 1 and 50")
	return v.Err()
}

// ParseListQuery reads page, perPage and filter from a query string.
// Parameters that are present must be valid integers in range.
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{Page: DefaultPage, PerPage: DefaultPerPage, Filter: values.Get("filter")}
	var v apperr.Validation
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		v.Check(err == nil && n >= 1, "page", "the page must be an integer of at least 1")
		q.Page = n
	}
	if raw := values.Get("perPage"); raw != "" {
		n, err := strconv.Atoi(raw)
		v.Check(err == nil && n >= 1 && n <= MaxPerPage, "perPage", "the perPage must be an integer between 1 and 50")
		q.PerPage = n
	}
	if err := v.Err(); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}

type Meta struct {
	Total        int  `json:"total"`
	IsFirstPage  bool `json:"is_first_page"`
	IsLastPage   bool `json:"is_last_page"`
	CurrentPage  int  `json:"current_page"`
	NextPage     int  `json:"next_page"`
	PreviousPage int  `json:"previous_page"`
}

type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// NewPage wraps one page of items. next_page and previous_page are not
// clamped to the valid range.
func NewPage[T any](items []T, total, page, perPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data: items,
		Meta: Meta{
			Total:        total,
			IsFirstPage:  page == 1,
			IsLastPage:   page == LastPage(total, perPage),
			CurrentPage:  page,
			NextPage:     page + 1,
			PreviousPage: page - 1,
		},
	}
}

// LastPage is the number of the last page, never less than 1.
func LastPage(total, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
