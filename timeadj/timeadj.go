// Package timeadj implements the §4.4 strict monotonic timestamp adjuster.
package timeadj

import "github.com/capfix/capfix/pkt"

// State is the §3 StrictAdjState. Adjustment.Neg encodes intent: a
// non-negative Adjustment only rewrites timestamps that are out of order
// or equal to the previous one, to previous + Adjustment; a negative Adjustment (Neg == true) forces every
// timestamp after the first to be spaced exactly |Adjustment| apart
// (§9 Open Question: the very first record always passes through
// unmodified, even in forced-spacing mode).
type State struct {
	Adjustment pkt.TimeSpec

	previous   pkt.TimeSpec
	haveRecord bool
}

// New returns a fresh State with the given adjustment delta.
func New(adjustment pkt.TimeSpec) *State {
	return &State{Adjustment: adjustment}
}

// Apply rewrites t per §4.4 and returns the (possibly adjusted) result.
func (s *State) Apply(t pkt.TimeSpec) pkt.TimeSpec {
	if !s.haveRecord {
		s.haveRecord = true
		s.previous = t
		return t
	}

	var out pkt.TimeSpec
	if s.Adjustment.Neg {
		// forced exact spacing, unconditionally
		out = s.previous.Add(pkt.TimeSpec{Secs: s.Adjustment.Secs, Nsecs: s.Adjustment.Nsecs})
	} else {
		delta := t.Sub(s.previous)
		if delta.Neg || (delta.Secs == 0 && delta.Nsecs == 0) {
			// out of order, or tied with previous: rewrite forward by Adjustment
			out = s.previous.Add(s.Adjustment)
		} else {
			out = t
		}
	}

	s.previous = out
	return out
}
