package geo

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
	}{
		{"Same", Point{Lat: 1, Lon: 2}, Point{Lat: 1, Lon: 2}, 0},
		{"Lon", Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 0.0005}, 0.0005},
		{"Lat", Point{Lat: -1, Lon: 0}, Point{Lat: 2, Lon: 0}, 3},
		{"Diagonal", Point{Lat: 0, Lon: 0}, Point{Lat: 3, Lon: 4}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), 1e-12)
			assert.Equal(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a))
		})
	}
}

func TestIsOriginal(t *testing.T) {
	assert.True(t, Point{ID: 3, UniqueID: 3}.IsOriginal())
	assert.False(t, Point{ID: 4, UniqueID: 3}.IsOriginal())
	assert.True(t, Point{}.IsOriginal())
}

func TestStoreSortedBy(t *testing.T) {
	s := NewStore([]Point{
		{Lat: 2, Lon: 0},
		{Lat: 1, Lon: 5},
		{Lat: 2, Lon: -1},
		{Lat: 0, Lon: 5},
	})
	assert.Equal(t, []int{3, 1, 0, 2}, s.SortedBy(Latitude))
	assert.Equal(t, []int{2, 0, 1, 3}, s.SortedBy(Longitude))
}

func TestNewStoreCopies(t *testing.T) {
	pts := []Point{{Lat: 1}, {Lat: 2}}
	s := NewStore(pts)
	pts[0].Lat = 42
	assert.Equal(t, 1.0, s.At(0).Lat)
	assert.Equal(t, 2, s.Len())
}

func TestStoreValidate(t *testing.T) {
	require.NoError(t, NewStore([]Point{{Lat: 1, Lon: 2}}).Validate())
	require.NoError(t, NewStore(nil).Validate())

	for _, bad := range []Point{
		{Lat: math.NaN()},
		{Lon: math.Inf(1)},
		{Lat: math.Inf(-1)},
	} {
		err := NewStore([]Point{{}, bad}).Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPoint))
	}
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("lon")
	require.NoError(t, err)
	assert.Equal(t, Longitude, a)
	assert.Equal(t, Latitude, a.Other())

	a, err = ParseAxis("latitude")
	require.NoError(t, err)
	assert.Equal(t, Latitude, a)
	assert.Equal(t, "lat", a.String())

	_, err = ParseAxis("alt")
	assert.Error(t, err)
}
