package helpers

import (
	"net/http"

	"tradefair/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Values that are
// missing, malformed or below 1 fall back to the defaults; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	return domain.PaginationParams{
		Page:     positiveQueryInt(r, "page", DefaultPage),
		PageSize: min(positiveQueryInt(r, "page_size", DefaultPageSize), MaxPageSize),
	}
}

func positiveQueryInt(r *http.Request, name string, def int) int {
	if v, ok := QueryInt(r, name, def); ok && v >= 1 {
		return v
	}
	return def
}

// PaginationMeta accompanies paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta describes the page params selected out of total rows.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	return PaginationMeta{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: params.TotalPages(total),
	}
}
