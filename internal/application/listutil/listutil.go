// Package listutil provides pagination helpers shared by list projections
// and their handlers.
package listutil

import (
	"net/url"
	"strconv"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// PrevPage returns the previous page number, clamped at 1.
func (p PageInfo) PrevPage() int {
	if p.Page <= 1 {
		return 1
	}
	return p.Page - 1
}

// NextPage returns the next page number, clamped at TotalPages.
func (p PageInfo) NextPage() int {
	if p.Page >= p.TotalPages {
		return p.TotalPages
	}
	return p.Page + 1
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// ParsePageParams extracts page and per_page from URL query values.
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// NewPageInfo computes pagination metadata for a total row count.
func NewPageInfo(p PageParams, total int) PageInfo {
	p = normalized(p)
	totalPages := (total + p.PerPage - 1) / p.PerPage
	if totalPages < 1 {
		totalPages = 1
	}
	return PageInfo{Page: p.Page, PerPage: p.PerPage, Total: total, TotalPages: totalPages}
}

// Window returns the [lo, hi) slice bounds of the requested page within a
// list of the given length. A page past the end yields an empty window.
func Window(p PageParams, length int) (lo, hi int) {
	p = normalized(p)
	lo = (p.Page - 1) * p.PerPage
	if lo > length {
		return length, length
	}
	hi = lo + p.PerPage
	if hi > length {
		hi = length
	}
	return lo, hi
}

func normalized(p PageParams) PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	return p
}

func isValidPerPage(v int) bool {
	for _, opt := range PerPageOptions {
		if v == opt {
			return true
		}
	}
	return false
}
