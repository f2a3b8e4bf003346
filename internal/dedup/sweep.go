// Package dedup finds pairs of points closer than a radius with a sweep
// line over one axis and an ordered active index over the other.
package dedup

import (
	"math"

	"github.com/orian/geo-loc-duplicates/internal/geo"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// Radius is the exclusive distance bound; 0 never matches.
	Radius float64
	// VerifyWithUniqueID enables true positive counting.
	VerifyWithUniqueID bool
	// Primary is the sweep axis, latitude by default.
	Primary geo.Axis
	// Tracer receives diagnostics. Nil disables tracing. RunBanded calls it
	// from several goroutines.
	Tracer Tracer
}

func (c Config) Validate() error {
	if math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) {
		return errors.Wrapf(ErrInvalidConfig, "radius %v is not finite", c.Radius)
	}
	if c.Radius < 0 {
		return errors.Wrapf(ErrInvalidConfig, "radius %v is negative", c.Radius)
	}
	return nil
}

func (c Config) tracer() Tracer {
	if c.Tracer == nil {
		return NopTracer{}
	}
	return c.Tracer
}

func prepare(store *geo.Store, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := store.Validate(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

// Run counts duplicate candidates in store on a single goroutine.
func Run(store *geo.Store, cfg Config) (Result, error) {
	if err := prepare(store, cfg); err != nil {
		return Result{}, err
	}
	n := store.Len()
	if n < 2 {
		return Result{Points: n}, nil
	}

	m := &Metrics{}
	s := newSweeper(store, store.SortedBy(cfg.Primary), cfg, m)
	if err := s.run(0, n-1); err != nil {
		return Result{}, err
	}
	return m.result(n), nil
}

// RunBanded splits the focal points into contiguous bands of the sorted
// order and sweeps them concurrently. A band's window runs past its last
// focal point for as long as the primary gap stays under the radius, and
// every pair is counted from its earlier point, so the merged counters
// equal those of Run.
func RunBanded(store *geo.Store, cfg Config, bands int) (Result, error) {
	if bands < 1 {
		return Result{}, errors.Wrapf(ErrInvalidConfig, "bands must be positive, got %d", bands)
	}
	if err := prepare(store, cfg); err != nil {
		return Result{}, err
	}
	n := store.Len()
	if n < 2 {
		return Result{Points: n}, nil
	}

	order := store.SortedBy(cfg.Primary)
	focal := n - 1
	if bands > focal {
		bands = focal
	}
	metrics := make([]*Metrics, bands)
	var g errgroup.Group
	for b := 0; b < bands; b++ {
		from, until := b*focal/bands, (b+1)*focal/bands
		metrics[b] = &Metrics{}
		s := newSweeper(store, order, cfg, metrics[b])
		g.Go(func() error {
			return errors.Wrapf(s.run(from, until), "band %d [%d, %d)", b, from, until)
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	total := &Metrics{}
	for _, m := range metrics {
		total.Merge(m)
	}
	return total.result(n), nil
}

type sweeper struct {
	store   *geo.Store
	order   []int
	primary geo.Axis
	radius  float64
	active  *ActiveIndex
	oracle  *oracle
	tracer  Tracer
}

func newSweeper(store *geo.Store, order []int, cfg Config, m *Metrics) *sweeper {
	secondary := cfg.Primary.Other()
	tracer := cfg.tracer()
	return &sweeper{
		store:   store,
		order:   order,
		primary: cfg.Primary,
		radius:  cfg.Radius,
		active:  NewActiveIndex(store, secondary),
		tracer:  tracer,
		oracle: &oracle{
			store:     store,
			secondary: secondary,
			radius:    cfg.Radius,
			verify:    cfg.VerifyWithUniqueID,
			metrics:   m,
			tracer:    tracer,
		},
	}
}

func (s *sweeper) gap(a, b int) float64 {
	return s.primary.Value(s.store.At(s.order[b])) - s.primary.Value(s.store.At(s.order[a]))
}

func (s *sweeper) insert(pos int) error {
	id := s.order[pos]
	if err := s.active.Insert(id); err != nil {
		return err
	}
	s.tracer.Inserted(s.store, id)
	return nil
}

func (s *sweeper) delete(pos int, drained bool) error {
	id := s.order[pos]
	if err := s.active.Delete(id); err != nil {
		return err
	}
	s.tracer.Deleted(s.store, id, drained)
	return nil
}

// checkWindow verifies the index holds exactly the sorted positions
// [start, end).
func (s *sweeper) checkWindow(start, end int) error {
	if got := s.active.Len(); got != end-start {
		return errors.Wrapf(ErrInvariantViolation,
			"active index holds %d points, window [%d, %d) has %d", got, start, end, end-start)
	}
	return nil
}

// run resolves the focal points at sorted positions [from, until). The
// point at until is never a focal point itself; a full run passes the last
// position, whose pairs are all found from earlier points.
func (s *sweeper) run(from, until int) error {
	start, end := from, from+1
	if err := s.insert(start); err != nil {
		return err
	}
	for start != until {
		if start != end && (end == len(s.order) || s.gap(start, end) >= s.radius) {
			if err := s.checkWindow(start, end); err != nil {
				return err
			}
			focal := s.order[start]
			s.tracer.Resolving(s.store, focal)
			s.oracle.resolve(focal, s.active)
			if err := s.delete(start, false); err != nil {
				return err
			}
			start++
			continue
		}
		if err := s.insert(end); err != nil {
			return err
		}
		end++
	}

	for pos := start; pos < end; pos++ {
		if err := s.delete(pos, true); err != nil {
			return err
		}
	}
	return s.checkWindow(0, 0)
}
