package dto

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps Offset well inside int range on 32-bit platforms.
	MaxPage = 1_000_000
)

// PageRequest is a 1-based page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page to [1, MaxPage] and limit to [1, MaxPageSize].
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Page < 1:
		p.Page = 1
	case p.Page > MaxPage:
		p.Page = MaxPage
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNext      bool  `json:"hasNext"`
	HasPrevious  bool  `json:"hasPrevious"`
}

// NewPagination computes page metadata for total items.
func NewPagination(p PageRequest, total int64) Pagination {
	p = p.Normalize()
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
		HasNext:      p.Page < pages,
		HasPrevious:  p.Page > 1,
	}
}

// Page is a slice of items with its pagination.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// Paginate slices an in-memory collection.
func Paginate[T any](items []T, p PageRequest) Page[T] {
	p = p.Normalize()
	total := len(items)
	start := max(0, min(p.Offset(), total))
	end := min(start+p.Limit, total)
	return Page[T]{
		Items:      items[start:end],
		Pagination: NewPagination(p, int64(total)),
	}
}
