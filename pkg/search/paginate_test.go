package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}

	t.Run("first page", func(t *testing.T) {
		p := Paginate(items, 1, 10)
		require.Len(t, p.Data, 10)
		assert.Equal(t, 1, p.Data[0])
		assert.Equal(t, 25, p.Total)
		assert.True(t, p.HasMore)
	})

	t.Run("last page", func(t *testing.T) {
		p := Paginate(items, 3, 10)
		require.Len(t, p.Data, 5)
		assert.Equal(t, 21, p.Data[0])
		assert.False(t, p.HasMore)
	})

	t.Run("metadata", func(t *testing.T) {
		p := Paginate(items, 2, 10)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 10, p.PageSize)
		assert.Equal(t, 25, p.Total)
	})

	t.Run("past the end", func(t *testing.T) {
		p := Paginate(items, 9, 10)
		assert.Empty(t, p.Data)
		assert.False(t, p.HasMore)
	})

	t.Run("huge page number", func(t *testing.T) {
		p := Paginate([]int{1, 2, 3}, math.MaxInt/5, 10)
		assert.Empty(t, p.Data)
		assert.Equal(t, 3, p.Total)
		assert.False(t, p.HasMore)

		p = Paginate(items, math.MaxInt, 1)
		assert.Empty(t, p.Data)
	})

	t.Run("huge page size", func(t *testing.T) {
		p := Paginate(items, 1, math.MaxInt)
		assert.Len(t, p.Data, 25)
		assert.False(t, p.HasMore)

		p = Paginate(items, 2, math.MaxInt)
		assert.Empty(t, p.Data)
	})

	t.Run("non-positive arguments", func(t *testing.T) {
		p := Paginate(items, 0, 0)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.PageSize)
		assert.Equal(t, []int{1}, p.Data)
	})
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]string{}, 1, 10)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Equal(t, 0, p.Total)
	assert.False(t, p.HasMore)
}

func TestPaginateDoesNotAlias(t *testing.T) {
	items := []int{1, 2, 3}
	p := Paginate(items, 1, 2)
	p.Data[0] = 99
	assert.Equal(t, 1, items[0])
}
