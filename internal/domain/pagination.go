package domain

// PaginationParams selects one page of a list query. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip before the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns how many pages total rows span at this page size.
func (p PaginationParams) TotalPages(total int) int {
	if p.PageSize < 1 || total <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
