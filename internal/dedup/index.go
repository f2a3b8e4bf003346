package dedup

import (
	"math"

	"github.com/google/btree"
	"github.com/orian/geo-loc-duplicates/internal/geo"
	"github.com/pkg/errors"
)

type entry struct {
	key float64
	id  int
}

func lessEntry(a, b entry) bool {
	if a.key != b.key {
		return a.key < b.key
	}
	return a.id < b.id
}

// Cursor is a position in an ActiveIndex. The zero value is not valid; use
// the cursors returned by the index.
type Cursor struct {
	e   entry
	end bool
}

// End reports whether c is past the last entry.
func (c Cursor) End() bool { return c.end }

// ID is the identity at c. It must not be called on an end cursor.
func (c Cursor) ID() int { return c.e.id }

// ActiveIndex is an ordered set of store identities keyed by one axis.
// Entries with equal keys are ordered by identity.
type ActiveIndex struct {
	store *geo.Store
	axis  geo.Axis
	tree  *btree.BTreeG[entry]
}

func NewActiveIndex(store *geo.Store, axis geo.Axis) *ActiveIndex {
	return &ActiveIndex{
		store: store,
		axis:  axis,
		tree:  btree.NewG(32, lessEntry),
	}
}

func (x *ActiveIndex) entry(id int) entry {
	return entry{key: x.axis.Value(x.store.At(id)), id: id}
}

func (x *ActiveIndex) Len() int { return x.tree.Len() }

func (x *ActiveIndex) Has(id int) bool { return x.tree.Has(x.entry(id)) }

func (x *ActiveIndex) Insert(id int) error {
	if _, found := x.tree.ReplaceOrInsert(x.entry(id)); found {
		return errors.Wrapf(ErrInvariantViolation, "point %d inserted twice", id)
	}
	return nil
}

func (x *ActiveIndex) Delete(id int) error {
	if _, found := x.tree.Delete(x.entry(id)); !found {
		return errors.Wrapf(ErrInvariantViolation, "delete of absent point %d", id)
	}
	return nil
}

func (x *ActiveIndex) first(pivot entry, strict bool) Cursor {
	c := Cursor{end: true}
	x.tree.AscendGreaterOrEqual(pivot, func(e entry) bool {
		if strict && e == pivot {
			return true
		}
		c = Cursor{e: e}
		return false
	})
	return c
}

// LowerBound returns a cursor at the first entry with key >= key.
func (x *ActiveIndex) LowerBound(key float64) Cursor {
	return x.first(entry{key: key, id: math.MinInt}, false)
}

// UpperBound returns a cursor at the first entry with key > key.
func (x *ActiveIndex) UpperBound(key float64) Cursor {
	return x.first(entry{key: key, id: math.MaxInt}, true)
}

// Next returns the cursor following c. Next of an end cursor is an end
// cursor.
func (x *ActiveIndex) Next(c Cursor) Cursor {
	if c.end {
		return c
	}
	return x.first(c.e, true)
}

// Ascend calls fn for every identity in [first, last) in ascending order,
// stopping early when fn returns false.
func (x *ActiveIndex) Ascend(first, last Cursor, fn func(id int) bool) {
	if first.end {
		return
	}
	x.tree.AscendGreaterOrEqual(first.e, func(e entry) bool {
		if !last.end && !lessEntry(e, last.e) {
			return false
		}
		return fn(e.id)
	})
}
