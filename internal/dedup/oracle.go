package dedup

import "github.com/orian/geo-loc-duplicates/internal/geo"

// oracle applies the exact distance test to the index entries that fall in
// a focal point's secondary-axis interval.
type oracle struct {
	store     *geo.Store
	secondary geo.Axis
	radius    float64
	verify    bool
	metrics   *Metrics
	tracer    Tracer
}

// resolve scans the candidates of focal and returns how many were examined.
// The scan covers [LowerBound(k-r), UpperBound(k+r)] plus the entry after
// the upper bound, if any.
func (o *oracle) resolve(focal int, active *ActiveIndex) int {
	fp := o.store.At(focal)
	key := o.secondary.Value(fp)

	first := active.LowerBound(key - o.radius)
	last := active.UpperBound(key + o.radius)
	last = active.Next(last)

	scanned := 0
	active.Ascend(first, last, func(id int) bool {
		scanned++
		if id == focal {
			o.tracer.SkippedSelf(o.store, focal)
			return true
		}
		cp := o.store.At(id)
		dist := geo.Distance(fp, cp)
		if dist >= o.radius {
			o.tracer.Rejected(o.store, focal, id, dist)
			return true
		}
		o.tracer.Accepted(o.store, focal, id, dist)
		o.metrics.RecordCandidate()
		if o.verify && isTruePositive(fp, cp) {
			o.metrics.RecordTruePositive()
		}
		return true
	})
	o.metrics.recordScanned(scanned)
	o.tracer.Scanned(o.store, focal, scanned)
	return scanned
}

// isTruePositive reports whether a and b share a unique id and at least one
// of them is the original.
func isTruePositive(a, b geo.Point) bool {
	return (a.IsOriginal() || b.IsOriginal()) && a.UniqueID == b.UniqueID
}
