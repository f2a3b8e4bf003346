// Package geo holds the point records the duplicate detector works on.
package geo

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidPoint is returned when a point carries a non-finite coordinate.
var ErrInvalidPoint = errors.New("invalid point")

type Point struct {
	ID       int64   `json:"id"`
	UniqueID int64   `json:"unique_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Label    string  `json:"label"`
}

// IsOriginal reports whether p is the ground-truth original of its group.
func (p Point) IsOriginal() bool { return p.ID == p.UniqueID }

func (p Point) String() string {
	return fmt.Sprintf("%d(%d) X (%g, %g)", p.ID, p.UniqueID, p.Lat, p.Lon)
}

func (p Point) vec() r2.Vec { return r2.Vec{X: p.Lat, Y: p.Lon} }

// Distance is the planar Euclidean distance between a and b, on raw
// coordinate values.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a.vec(), b.vec()))
}

type Axis int

const (
	Latitude Axis = iota
	Longitude
)

func (a Axis) Value(p Point) float64 {
	if a == Longitude {
		return p.Lon
	}
	return p.Lat
}

func (a Axis) Other() Axis {
	if a == Longitude {
		return Latitude
	}
	return Longitude
}

func (a Axis) String() string {
	if a == Longitude {
		return "lon"
	}
	return "lat"
}

// ParseAxis accepts "lat"/"latitude" and "lon"/"longitude".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "lat", "latitude", "":
		return Latitude, nil
	case "lon", "longitude":
		return Longitude, nil
	}
	return Latitude, errors.Errorf("unknown axis %q", s)
}

// Store is a fixed, pre-sized arena of points. A point's identity is its
// index and stays valid for the lifetime of the store.
type Store struct {
	points []Point
}

// NewStore copies pts into a new store.
func NewStore(pts []Point) *Store {
	points := make([]Point, len(pts))
	copy(points, pts)
	return &Store{points: points}
}

func (s *Store) Len() int { return len(s.points) }

// At returns the point with identity id.
func (s *Store) At(id int) Point { return s.points[id] }

// Validate checks that every coordinate is finite.
func (s *Store) Validate() error {
	for i, p := range s.points {
		if !finite(p.Lat) || !finite(p.Lon) {
			return errors.Wrapf(ErrInvalidPoint, "point %d (%v) has a non-finite coordinate", i, p)
		}
	}
	return nil
}

// SortedBy returns identities ordered ascending by the axis coordinate,
// ties broken by identity.
func (s *Store) SortedBy(axis Axis) []int {
	order := make([]int, len(s.points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := axis.Value(s.points[order[i]]), axis.Value(s.points[order[j]])
		if a != b {
			return a < b
		}
		return order[i] < order[j]
	})
	return order
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
