// Package ranges implements the §4.8 selection matcher: a fixed-capacity
// list of 1-based record-index singletons and inclusive ranges, used by
// the pipeline's Selection stage.
package ranges

import "math"

// MaxItems is the fixed capacity of a Set (§3: "ordered list of up to
// 512 items").
const MaxItems = 512

// Unbounded is the max_selection value when any range is open-ended
// (§3: "max_selection is the largest explicit number or UINT_MAX if any
// range was unbounded").
const Unbounded = math.MaxUint64

// item is either a singleton (Lo == Hi) or an inclusive range [Lo, Hi].
// Hi == 0 is the §6/§9 "5-0 means 5 to infinity" spelling: zero as a
// range endpoint is interpreted as unbounded, not literal zero.
type item struct {
	lo, hi uint64 // hi == 0 means unbounded
}

func (it item) matches(n uint64) bool {
	if n < it.lo {
		return false
	}
	return it.hi == 0 || n <= it.hi
}

// Set is an ordered selection list (§3 SelectionSet).
type Set struct {
	items        []item
	maxSelection uint64
	overflowed   bool // true once the 513th Add was rejected
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

// AddSingle appends a singleton item "n". Once 512 items have been
// accepted, further calls are no-ops that set Overflowed() but the Set
// keeps working with what it already has (§4.8: "attempting the 513th
// item logs and stops parsing further items but keeps running").
func (s *Set) AddSingle(n uint64) {
	s.add(item{lo: n, hi: n})
}

// AddRange appends an inclusive range [a, b]. b == 0 means unbounded
// (§6/§9).
func (s *Set) AddRange(a, b uint64) {
	s.add(item{lo: a, hi: b})
}

func (s *Set) add(it item) {
	if len(s.items) >= MaxItems {
		s.overflowed = true
		return
	}
	s.items = append(s.items, it)

	if it.hi == 0 {
		s.maxSelection = Unbounded
	} else if s.maxSelection != Unbounded && it.hi > s.maxSelection {
		s.maxSelection = it.hi
	}
	if s.maxSelection != Unbounded && it.lo > s.maxSelection {
		s.maxSelection = it.lo
	}
}

// Overflowed reports whether an item past the 512-item cap was dropped.
func (s *Set) Overflowed() bool {
	return s.overflowed
}

// MaxSelection returns the largest explicit number named by any item, or
// Unbounded if any range was open-ended.
func (s *Set) MaxSelection() uint64 {
	return s.maxSelection
}

// Selected reports whether n matches any item in the set, stopping at
// the first match (§4.8).
func (s *Set) Selected(n uint64) bool {
	for _, it := range s.items {
		if it.matches(n) {
			return true
		}
	}
	return false
}

// Len returns the number of items currently held.
func (s *Set) Len() int {
	return len(s.items)
}
