package tspec

import (
	"time"

	"github.com/capfix/capfix/pkt"
)

// calendarLayout matches the -A/-B CLI grammar from spec.md §6:
// "YYYY-MM-DD HH:MM:SS", interpreted in UTC so capture timestamps
// (which are themselves UTC epoch-based) compare directly.
const calendarLayout = "2006-01-02 15:04:05"

// ParseCalendar parses an absolute "-A"/"-B" timestamp into a pkt.TimeSpec
// holding seconds since the Unix epoch (Nsecs always 0: the grammar has no
// fractional seconds).
func ParseCalendar(s string) (pkt.TimeSpec, error) {
	t, err := time.Parse(calendarLayout, s)
	if err != nil {
		return pkt.TimeSpec{}, err
	}
	return pkt.TimeSpec{Secs: t.Unix()}, nil
}
