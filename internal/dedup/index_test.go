package dedup

import (
	"testing"

	"github.com/orian/geo-loc-duplicates/internal/geo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lonStore(lons ...float64) *geo.Store {
	pts := make([]geo.Point, len(lons))
	for i, lon := range lons {
		pts[i] = geo.Point{Lon: lon}
	}
	return geo.NewStore(pts)
}

func collect(x *ActiveIndex, first, last Cursor) []int {
	var ids []int
	x.Ascend(first, last, func(id int) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func TestActiveIndexInsertDelete(t *testing.T) {
	x := NewActiveIndex(lonStore(3, 1, 2), geo.Longitude)
	for id := 0; id < 3; id++ {
		require.NoError(t, x.Insert(id))
	}
	assert.Equal(t, 3, x.Len())
	assert.Equal(t, []int{1, 2, 0}, collect(x, x.LowerBound(0), Cursor{end: true}))

	require.NoError(t, x.Delete(2))
	assert.False(t, x.Has(2))
	assert.True(t, x.Has(1))
	assert.Equal(t, []int{1, 0}, collect(x, x.LowerBound(0), Cursor{end: true}))
}

func TestActiveIndexMisuse(t *testing.T) {
	x := NewActiveIndex(lonStore(1, 1), geo.Longitude)
	require.NoError(t, x.Insert(0))

	err := x.Insert(0)
	assert.True(t, errors.Is(err, ErrInvariantViolation))

	err = x.Delete(1)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
	assert.Equal(t, 1, x.Len())
}

func TestActiveIndexEqualKeys(t *testing.T) {
	x := NewActiveIndex(lonStore(5, 5, 5, 4), geo.Longitude)
	for _, id := range []int{2, 0, 3, 1} {
		require.NoError(t, x.Insert(id))
	}
	all := collect(x, x.LowerBound(5), x.UpperBound(5))
	assert.Equal(t, []int{0, 1, 2}, all)

	require.NoError(t, x.Delete(1))
	assert.Equal(t, []int{0, 2}, collect(x, x.LowerBound(5), x.UpperBound(5)))
}

func TestActiveIndexBounds(t *testing.T) {
	x := NewActiveIndex(lonStore(0, 1, 2, 3, 4), geo.Longitude)
	for id := 0; id < 5; id++ {
		require.NoError(t, x.Insert(id))
	}

	lb := x.LowerBound(1.5)
	require.False(t, lb.End())
	assert.Equal(t, 2, lb.ID())

	ub := x.UpperBound(3)
	require.False(t, ub.End())
	assert.Equal(t, 4, ub.ID())

	assert.Equal(t, []int{2, 3}, collect(x, lb, ub))
	assert.Equal(t, []int{2, 3, 4}, collect(x, lb, x.Next(ub)))

	assert.True(t, x.UpperBound(4).End())
	assert.True(t, x.LowerBound(4.5).End())
	assert.True(t, x.Next(x.UpperBound(4)).End())
	assert.Empty(t, collect(x, x.LowerBound(4.5), x.UpperBound(10)))
	assert.Equal(t, 0, x.LowerBound(-1).ID())
}
