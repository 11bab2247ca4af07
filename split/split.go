// Package split implements the §4.6 output splitter: a state machine
// that rolls output files either by packet count or by a fixed time
// interval, plus the §4.1/§6 filename template.
package split

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/capfix/capfix/pkt"
)

// Mode selects the active trigger.
type Mode int

const (
	None Mode = iota
	ByCount
	ByInterval
)

// State is the §3 SplitState.
type State struct {
	Mode Mode

	Count    int           // ByCount: k
	Interval pkt.TimeSpec  // ByInterval: delta seconds (Nsecs ignored)
	prefix   string
	suffix   string

	writtenInCurrent uint32
	intervalStart    pkt.TimeSpec
	haveInterval     bool
	FileIndex        uint32
}

// New returns a State for the given output path, splitting it into
// prefix/suffix per §6: "split at the last '.' after the last path
// separator; if absent, whole name is prefix and suffix is empty."
func New(outPath string, mode Mode, count int, interval pkt.TimeSpec) (*State, error) {
	if mode == ByCount && count <= 0 {
		return nil, fmt.Errorf("split: invalid count %d", count)
	}

	prefix, suffix := splitNameAtLastDot(outPath)
	return &State{
		Mode:     mode,
		Count:    count,
		Interval: interval,
		prefix:   prefix,
		suffix:   suffix,
	}, nil
}

func splitNameAtLastDot(outPath string) (prefix, suffix string) {
	dir, base := filepath.Split(outPath)
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		return dir + base[:idx], base[idx:]
	}
	return dir + base, ""
}

// Filename composes the §4.1/§6 filename:
//
//	<prefix>_<5-digit file-index mod 100000>[_YYYYMMDDhhmmss]<suffix>
//
// The timestamp component is included only if ts is available.
func (s *State) Filename(ts pkt.TimeSpec, haveTS bool) string {
	var b strings.Builder
	b.WriteString(s.prefix)
	fmt.Fprintf(&b, "_%05d", s.FileIndex%100000)
	if haveTS {
		b.WriteByte('_')
		writeCalendar(&b, ts)
	}
	b.WriteString(s.suffix)
	return b.String()
}

// writeCalendar formats ts.Secs (a Unix UTC timestamp) as YYYYMMDDhhmmss.
func writeCalendar(b *strings.Builder, ts pkt.TimeSpec) {
	b.WriteString(time.Unix(ts.Secs, 0).UTC().Format("20060102150405"))
}

// ShouldRollCount implements the ByCount trigger: after each successful
// emit, call RecordWritten; before the next record is emitted,
// ShouldRollCount reports whether the current file is full and a roll
// must happen first (that record becomes the first record of the next
// file).
func (s *State) ShouldRollCount() bool {
	return s.Mode == ByCount && s.writtenInCurrent > 0 && s.writtenInCurrent%uint32(s.Count) == 0
}

// RecordWritten tells the State a record was just emitted to the
// current file, for the ByCount trigger's modulus check.
func (s *State) RecordWritten() {
	s.writtenInCurrent++
}

// Roll resets the per-file counters after a roll and bumps FileIndex.
func (s *State) Roll() {
	s.writtenInCurrent = 0
	s.FileIndex++
}

// ShouldRollInterval implements the ByInterval trigger (§4.6): given the
// incoming record's timestamp, reports whether the current interval has
// been crossed. SetIntervalStart must be called once, on the first
// record; AdvanceInterval moves the anchor forward on each roll.
func (s *State) ShouldRollInterval(ts pkt.TimeSpec) bool {
	if s.Mode != ByInterval || !s.haveInterval {
		return false
	}
	delta := ts.Secs - s.intervalStart.Secs
	if delta > s.Interval.Secs {
		return true
	}
	if delta == s.Interval.Secs && ts.Nsecs >= s.intervalStart.Nsecs {
		return true
	}
	return false
}

// AdvanceInterval moves intervalStart forward by Interval, possibly
// several times if a large gap skips multiple intervals (§4.6: "a large
// gap may skip several intervals").
func (s *State) AdvanceInterval(ts pkt.TimeSpec) {
	for s.ShouldRollInterval(ts) {
		s.intervalStart.Secs += s.Interval.Secs
	}
}

// SetIntervalStart marks the first record's timestamp as this file's
// interval anchor.
func (s *State) SetIntervalStart(ts pkt.TimeSpec) {
	s.intervalStart = ts
	s.haveInterval = true
}
