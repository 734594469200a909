package job

import "math"

// Pagination describes one page of a job listing. A page past the last one
// yields no items rather than an error.
type Pagination struct {
	Page    int
	PerPage int
	Total   int
	Items   []*Job
}

func NewPagination(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	// keeps Offset from overflowing
	if limit := math.MaxInt / perPage; page > limit {
		page = limit
	}
	return Pagination{Page: page, PerPage: perPage}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Pagination) Pages() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

func (p Pagination) HasNext() bool {
	return p.Page < p.Pages()
}

func (p Pagination) PrevNum() int {
	return p.Page - 1
}

func (p Pagination) NextNum() int {
	return p.Page + 1
}

// PageNumbers returns every page index, for the pager.
func (p Pagination) PageNumbers() []int {
	n := p.Pages()
	pages := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, i)
	}
	return pages
}
