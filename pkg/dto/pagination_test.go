package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestNormalize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, Limit: 100}, PageRequest{Page: 3, Limit: 500}.Normalize())
	assert.Equal(t, 40, PageRequest{Page: 3, Limit: 20}.Offset())
}

func TestNewPagination(t *testing.T) {
	t.Parallel()
	p := NewPagination(PageRequest{Page: 2, Limit: 10}, 25)
	assert.Equal(t, Pagination{
		CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10,
		HasNext: true, HasPrevious: true,
	}, p)

	empty := NewPagination(PageRequest{}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)
}

func TestPaginate(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5}

	page := Paginate(items, PageRequest{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page.Items)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	beyond := Paginate(items, PageRequest{Page: 9, Limit: 2})
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(5), beyond.Pagination.TotalItems)
}

func TestPaginate_HugePage(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3}

	cases := map[string]PageRequest{
		"max int page":     {Page: math.MaxInt, Limit: 100},
		"overflowing page": {Page: math.MaxInt / 50, Limit: 100},
		"just past max":    {Page: MaxPage + 1, Limit: 10},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var page Page[int]
			assert.NotPanics(t, func() { page = Paginate(items, req) })
			assert.Empty(t, page.Items)
			assert.Equal(t, MaxPage, page.Pagination.CurrentPage)
			assert.Equal(t, int64(3), page.Pagination.TotalItems)
			assert.False(t, page.Pagination.HasNext)
		})
	}

	assert.Equal(t, MaxPage, PageRequest{Page: math.MaxInt}.Normalize().Page)
	assert.GreaterOrEqual(t, PageRequest{Page: math.MaxInt, Limit: MaxPageSize}.Normalize().Offset(), 0)
}
