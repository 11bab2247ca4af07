// Package tspec parses the CLI time-spec grammar described in spec.md §4.7:
//
//	[whitespace]* [-] [digits] [. digits]
//
// into a pkt.TimeSpec. Used for -t (signed seconds), -S (strict-adjust
// delta), -i (split interval) and -w (dedup time window). The -A/-B
// absolute-time flags use ParseCalendar instead, which does not go through
// this grammar and accepts no fractional seconds.
package tspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/capfix/capfix/pkt"
)

var (
	// ErrEmpty is returned for "" or a bare "-" with no digits (§4.7:
	// "the bare string '-' with no number is invalid").
	ErrEmpty = errors.New("tspec: empty or sign-only value")

	// ErrOverflow is returned when the integer seconds component does not
	// fit in an int64 (§4.7: "Integer overflow on the seconds component
	// is an error").
	ErrOverflow = errors.New("tspec: seconds overflow")
)

// Parse parses s per the grammar above. ".5" is valid (zero whole seconds).
// Fractional digits beyond nine are truncated, not rounded.
func Parse(s string) (pkt.TimeSpec, error) {
	str := strings.TrimLeft(s, " \t")

	neg := false
	if strings.HasPrefix(str, "-") {
		neg = true
		str = str[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(str, ".")
	if intPart == "" && (!hasFrac || fracPart == "") {
		return pkt.TimeSpec{}, ErrEmpty
	}

	var secs int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return pkt.TimeSpec{}, fmt.Errorf("%w: %v", ErrOverflow, err)
			}
			return pkt.TimeSpec{}, fmt.Errorf("tspec: invalid seconds: %v", err)
		}
		secs = v
	}

	var nsecs int32
	if hasFrac && fracPart != "" {
		if len(fracPart) > 9 {
			fracPart = fracPart[:9] // truncate, not round
		}
		v, err := strconv.ParseInt(fracPart, 10, 32)
		if err != nil {
			return pkt.TimeSpec{}, fmt.Errorf("tspec: invalid fraction: %v", err)
		}
		// left-align: "5" means 500_000_000, "05" means 50_000_000
		for i := len(fracPart); i < 9; i++ {
			v *= 10
		}
		nsecs = int32(v)
	}

	return pkt.TimeSpec{Secs: secs, Nsecs: nsecs, Neg: neg}, nil
}

// MustParse is Parse but panics on error; only meant for tests and
// compile-time-known constants.
func MustParse(s string) pkt.TimeSpec {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
