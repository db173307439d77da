package entity

// PaginationParams represents pagination request parameters. Page is
// 1-based; Limit is fixed per screen by the caller.
type PaginationParams struct {
	Page  int `json:"page" query:"page"`
	Limit int `json:"limit" query:"limit"`
}

// PaginationMeta represents pagination metadata in responses. Total is the
// count matching the filter ignoring pagination and is recomputed on every
// call so it can never go stale after a filter change.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	HasMore     bool  `json:"has_more"`
}

// Pagination constants
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	MinPageSize     = 1
	DefaultPage     = 1
)

// Validate normalizes pagination parameters in place.
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}

	if p.Limit < MinPageSize {
		p.Limit = DefaultPageSize
	} else if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// CalculateOffset calculates the database offset from page and limit.
func (p *PaginationParams) CalculateOffset() int {
	return (p.Page - 1) * p.Limit
}

// NewPaginationMeta creates pagination metadata from parameters and total
// count. HasMore is true exactly when page*limit < total.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		HasMore:     int64(page)*int64(limit) < total,
	}
}
