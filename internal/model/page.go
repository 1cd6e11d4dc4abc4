package model

import "strconv"

// DefaultPageSize is the number of rows on every listing page.
const DefaultPageSize = 25

// Page is one page of an ordered listing.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// PageRequest is a requested page number and size. Number is 1-based.
type PageRequest struct {
	Number int
	Size   int
}

// ParsePageNumber turns the raw ?page= value into a page number. Missing or
// non-numeric values yield page 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Resolve clamps the request against total rows: page numbers past the end
// land on the last page, and an empty listing still has a single page.
// It returns the effective page number, offset and limit.
func (p PageRequest) Resolve(total int) (number, offset, limit int) {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := totalPages(total, size)
	number = p.Number
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return number, (number - 1) * size, size
}

// NewPage assembles a Page for items fetched with Resolve's offset/limit.
func NewPage[T any](items []T, number, size, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := totalPages(total, size)
	return &Page[T]{
		Items:       items,
		Number:      number,
		PageSize:    size,
		TotalItems:  total,
		TotalPages:  pages,
		HasNext:     number < pages,
		HasPrevious: number > 1,
	}
}

func totalPages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
