package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/system/paging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/tasks", 1, paging.DefaultLimit},
		{"explicit", "/tasks?page=3&limit=25", 3, 25},
		{"non-numeric falls back", "/tasks?page=x&limit=y", 1, paging.DefaultLimit},
		{"zero falls back", "/tasks?page=0&limit=0", 1, paging.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := paging.Parse(r)
			if p.Page != tt.wantPage {
				t.Errorf("Page: got %d, want %d", p.Page, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit: got %d, want %d", p.Limit, tt.wantLimit)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	p := paging.Params{Page: 3, Limit: 8}
	if got := p.Skip(); got != 16 {
		t.Errorf("Skip: got %d, want 16", got)
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		want  paging.Meta
	}{
		{
			name:  "10 tasks limit 8 page 1",
			page:  1, limit: 8, total: 10,
			want: paging.Meta{CurrentPage: 1, TotalPages: 2, Total: 10, HasNext: true, HasPrev: false},
		},
		{
			name:  "10 tasks limit 8 page 2",
			page:  2, limit: 8, total: 10,
			want: paging.Meta{CurrentPage: 2, TotalPages: 2, Total: 10, HasNext: false, HasPrev: true},
		},
		{
			name:  "empty set",
			page:  1, limit: 10, total: 0,
			want: paging.Meta{CurrentPage: 1, TotalPages: 0, Total: 0, HasNext: false, HasPrev: false},
		},
		{
			name:  "page past the end",
			page:  9, limit: 10, total: 15,
			want: paging.Meta{CurrentPage: 9, TotalPages: 2, Total: 15, HasNext: false, HasPrev: true},
		},
		{
			name:  "exact multiple",
			page:  2, limit: 5, total: 10,
			want: paging.Meta{CurrentPage: 2, TotalPages: 2, Total: 10, HasNext: false, HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paging.NewMeta(paging.Params{Page: tt.page, Limit: tt.limit}, tt.total)
			if got != tt.want {
				t.Errorf("NewMeta: got %+v, want %+v", got, tt.want)
			}
		})
	}
}
