package shared

import (
	"math"
	"strconv"
)

// MaxPerPage caps page sizes requested by clients.
const MaxPerPage = 500

// PageRequest is a normalised page/per_page pair.
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest clamps page and perPage, falling back to defaultPerPage.
// page is capped so the offset stays within an int4.
func NewPageRequest(page, perPage, defaultPerPage int) PageRequest {
	if defaultPerPage <= 0 {
		defaultPerPage = 20
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	if maxPage := math.MaxInt32 / perPage; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// ParsePageRequest reads page and per_page query values; junk values fall back to defaults.
func ParsePageRequest(page, perPage string, defaultPerPage int) PageRequest {
	p, _ := strconv.Atoi(page)
	pp, _ := strconv.Atoi(perPage)
	return NewPageRequest(p, pp, defaultPerPage)
}

// Offset returns the SQL offset for the request.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one page of a listing.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// NewPage computes pagination metadata for items.
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	lastPage := int(math.Ceil(float64(total) / float64(req.PerPage)))
	if lastPage < 1 {
		lastPage = 1
	}
	return Page[T]{
		Data:        items,
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}
}
