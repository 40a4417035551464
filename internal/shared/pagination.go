package shared

import "math"

// Pagination describes one page of a listing, serialized as the
// "paginacao" envelope member.
type Pagination struct {
	Page       int `json:"pagina"`
	PerPage    int `json:"porPagina"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPaginas"`
}

// NewPagination computes page metadata, defaulting to page 1 and 20
// rows when the caller passed nothing usable.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the SQL offset of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
