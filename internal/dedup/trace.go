package dedup

import (
	"sort"
	"sync"

	"github.com/orian/geo-loc-duplicates/internal/geo"
	"github.com/sirupsen/logrus"
)

// Tracer receives per-step diagnostics from a run. Identities are store
// indexes; the store is passed so implementations can describe points.
type Tracer interface {
	Inserted(s *geo.Store, id int)
	// Deleted reports a point leaving the index: evicted after its own
	// resolve, or drained when the run ends.
	Deleted(s *geo.Store, id int, drained bool)
	Resolving(s *geo.Store, focal int)
	Accepted(s *geo.Store, focal, candidate int, dist float64)
	SkippedSelf(s *geo.Store, focal int)
	Rejected(s *geo.Store, focal, candidate int, dist float64)
	Scanned(s *geo.Store, focal, n int)
}

type NopTracer struct{}

func (NopTracer) Inserted(*geo.Store, int)               {}
func (NopTracer) Deleted(*geo.Store, int, bool)          {}
func (NopTracer) Resolving(*geo.Store, int)              {}
func (NopTracer) Accepted(*geo.Store, int, int, float64) {}
func (NopTracer) SkippedSelf(*geo.Store, int)            {}
func (NopTracer) Rejected(*geo.Store, int, int, float64) {}
func (NopTracer) Scanned(*geo.Store, int, int)           {}

// LogTracer writes every event as a logrus entry.
type LogTracer struct {
	Log logrus.FieldLogger
}

func NewLogTracer(log logrus.FieldLogger) *LogTracer {
	return &LogTracer{Log: log.WithField("component", "sweep")}
}

func (t *LogTracer) Inserted(s *geo.Store, id int) {
	t.Log.WithField("point", s.At(id)).Info("added")
}

func (t *LogTracer) Deleted(s *geo.Store, id int, drained bool) {
	reason := "evicted"
	if drained {
		reason = "drained"
	}
	t.Log.WithFields(logrus.Fields{
		"point":  s.At(id),
		"reason": reason,
	}).Info("removed from window")
}

func (t *LogTracer) Resolving(s *geo.Store, focal int) {
	t.Log.WithField("focal", s.At(focal)).Info("searching duplicates")
}

func (t *LogTracer) Accepted(s *geo.Store, focal, candidate int, dist float64) {
	t.Log.WithFields(logrus.Fields{
		"focal":     s.At(focal),
		"candidate": s.At(candidate),
		"distance":  dist,
	}).Info("considering duplicate")
}

func (t *LogTracer) SkippedSelf(s *geo.Store, focal int) {
	t.Log.WithField("focal", s.At(focal)).Info("skipping self")
}

func (t *LogTracer) Rejected(s *geo.Store, focal, candidate int, dist float64) {
	t.Log.WithFields(logrus.Fields{
		"focal":     s.At(focal),
		"candidate": s.At(candidate),
		"distance":  dist,
	}).Info("skipping")
}

func (t *LogTracer) Scanned(s *geo.Store, focal, n int) {
	if n == 0 {
		t.Log.WithField("focal", s.At(focal)).Info("no items close enough")
		return
	}
	t.Log.WithFields(logrus.Fields{
		"focal":   s.At(focal),
		"scanned": n,
	}).Info("browsed through candidates")
}

// Pair is an accepted duplicate candidate, A < B by identity.
type Pair struct {
	A, B int
}

// PairCollector records accepted pairs and forwards every event to Next.
type PairCollector struct {
	Next Tracer

	mu    sync.Mutex
	pairs []Pair
}

func (c *PairCollector) next() Tracer {
	if c.Next == nil {
		return NopTracer{}
	}
	return c.Next
}

// Pairs returns the recorded pairs sorted by (A, B).
func (c *PairCollector) Pairs() []Pair {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Pair, len(c.pairs))
	copy(out, c.pairs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func (c *PairCollector) Accepted(s *geo.Store, focal, candidate int, dist float64) {
	p := Pair{A: focal, B: candidate}
	if p.B < p.A {
		p.A, p.B = p.B, p.A
	}
	c.mu.Lock()
	c.pairs = append(c.pairs, p)
	c.mu.Unlock()
	c.next().Accepted(s, focal, candidate, dist)
}

func (c *PairCollector) Inserted(s *geo.Store, id int)     { c.next().Inserted(s, id) }
func (c *PairCollector) Resolving(s *geo.Store, focal int) { c.next().Resolving(s, focal) }

func (c *PairCollector) Deleted(s *geo.Store, id int, drained bool) {
	c.next().Deleted(s, id, drained)
}
func (c *PairCollector) SkippedSelf(s *geo.Store, focal int) {
	c.next().SkippedSelf(s, focal)
}

func (c *PairCollector) Rejected(s *geo.Store, focal, candidate int, dist float64) {
	c.next().Rejected(s, focal, candidate, dist)
}

func (c *PairCollector) Scanned(s *geo.Store, focal, n int) { c.next().Scanned(s, focal, n) }
