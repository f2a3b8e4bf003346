package dedup

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/orian/geo-loc-duplicates/internal/geo"
)

type rtreeItem struct {
	rect  rtreego.Rect
	index int
}

func (item rtreeItem) Bounds() rtreego.Rect {
	return item.rect
}

// RunRTree counts the same pairs as Run using an R-tree region query per
// point instead of a sweep. It is slower and meant for cross-checking.
func RunRTree(store *geo.Store, cfg Config) (Result, error) {
	if err := prepare(store, cfg); err != nil {
		return Result{}, err
	}
	n := store.Len()
	if n < 2 || cfg.Radius == 0 {
		return Result{Points: n}, nil
	}

	tree := rtreego.NewTree(2, 25, 50)
	for i := 0; i < n; i++ {
		tree.Insert(rtreeItem{rect: pointRect(store.At(i), cfg.Radius), index: i})
	}

	m := &Metrics{}
	for i := 0; i < n; i++ {
		regionQuery(store, tree, i, cfg, m)
	}
	return m.result(n), nil
}

// pointRect is the box of half-width radius around p, widened to at least
// two ulps of either coordinate. rtreego treats touching boxes as disjoint,
// so a box narrower than the float spacing would lose coincident points;
// the exact distance filter still decides.
func pointRect(p geo.Point, radius float64) rtreego.Rect {
	tol := math.Max(radius, 2*math.Max(ulp(p.Lat), ulp(p.Lon)))
	return rtreego.Point{p.Lat, p.Lon}.ToRect(tol)
}

func ulp(f float64) float64 {
	f = math.Abs(f)
	return math.Nextafter(f, math.Inf(1)) - f
}

// regionQuery counts the pairs (idx, j) with j > idx, so every unordered
// pair is seen once.
func regionQuery(store *geo.Store, tree *rtreego.Rtree, idx int, cfg Config, m *Metrics) {
	p := store.At(idx)
	candidates := tree.SearchIntersect(pointRect(p, cfg.Radius))
	m.recordScanned(len(candidates))
	for _, obj := range candidates {
		item := obj.(rtreeItem)
		if item.index <= idx {
			continue
		}
		q := store.At(item.index)
		if geo.Distance(p, q) < cfg.Radius {
			m.RecordCandidate()
			if cfg.VerifyWithUniqueID && isTruePositive(p, q) {
				m.RecordTruePositive()
			}
		}
	}
}
