package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds an accumulating collection of diagnostics up to a capacity.
type Bag struct {
	items   []*Diagnostic
	maximum uint16
}

// NewBag creates a Bag with a capacity limit.
func NewBag(maximum int) *Bag {
	cap16, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag maximum overflow: %w", err))
	}
	return &Bag{items: make([]*Diagnostic, 0, cap16), maximum: cap16}
}

// Add appends d, returning false if the bag is at capacity.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil || len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the bag's maximum capacity.
func (b *Bag) Cap() uint16 { return b.maximum }

// HasErrors reports whether any diagnostic has Severity >= SevError.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics currently held.
func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view of the held diagnostics; do not mutate
// the returned slice, it aliases the Bag's backing array.
func (b *Bag) Items() []*Diagnostic { return b.items }

// Merge appends other's diagnostics, growing capacity if needed.
func (b *Bag) Merge(other *Bag) {
	total, err := safecast.Conv[uint16](len(b.items) + len(other.items))
	if err != nil {
		panic(fmt.Errorf("diag: bag merge overflow: %w", err))
	}
	if total > b.maximum {
		b.maximum = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (desc), code (asc) —
// spec.md §4.7's "program-point order, stable under reruns" requirement,
// extended with a file tiebreak. There is no per-function key.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
