// internal/app/system/paging/paging.go

// Package paging implements page-number pagination for list endpoints.
// Page and limit are taken as given: an out-of-range page yields an empty
// window, never an error.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the client does not supply one.
const DefaultLimit = 10

// Params is the parsed page window for a list request.
type Params struct {
	Page  int
	Limit int
}

// Parse extracts "page" and "limit" query parameters. Missing or
// non-numeric values fall back to page 1 and DefaultLimit.
func Parse(r *http.Request) Params {
	return Params{
		Page:  parseIntParam(r, "page", 1),
		Limit: parseIntParam(r, "limit", DefaultLimit),
	}
}

func parseIntParam(r *http.Request, name string, def int) int {
	s := query.Get(r, name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Skip returns the number of documents to skip for this window.
func (p Params) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// Meta is the pagination metadata returned alongside a page of results.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"totalTasks"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewMeta computes metadata for a filtered total. TotalPages is
// ceil(total/limit); HasNext/HasPrev describe adjacent windows.
func NewMeta(p Params, total int64) Meta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}
