package dedup

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig is returned before any sweep starts when the radius
	// or the input points cannot be used.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvariantViolation means the sweep state is inconsistent and the
	// run's counters cannot be trusted.
	ErrInvariantViolation = errors.New("invariant violation")
)
