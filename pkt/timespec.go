package pkt

const nsecPerSec = 1_000_000_000

// TimeSpec is a signed seconds+nanoseconds timestamp (§3). Secs always
// holds a non-negative magnitude; sign is carried by Neg so adjustment
// values (which may need to subtract) round-trip through the same type
// as record timestamps (which never do).
type TimeSpec struct {
	Secs  int64
	Nsecs int32 // 0 <= Nsecs < nsecPerSec
	Neg   bool
}

// Normalize carries/borrows Nsecs into Secs so 0 <= Nsecs < 1e9, keeping
// Neg as the sign of the overall value.
func (t TimeSpec) Normalize() TimeSpec {
	for t.Nsecs >= nsecPerSec {
		t.Nsecs -= nsecPerSec
		t.Secs++
	}
	for t.Nsecs < 0 {
		t.Nsecs += nsecPerSec
		t.Secs--
	}
	return t
}

// signedNsecs returns the value as a flat nanosecond count, respecting Neg.
// Used internally for comparisons; not exported since Secs/Nsecs/Neg is the
// canonical representation the rest of the module parses and formats.
func (t TimeSpec) signedNsecs() int64 {
	v := t.Secs*nsecPerSec + int64(t.Nsecs)
	if t.Neg {
		return -v
	}
	return v
}

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater
// than o, treating both as points on the same (unsigned) timeline —
// i.e. Neg is ignored, since §4.3/§4.4 only ever compare record
// timestamps, which are never negative.
func (t TimeSpec) Compare(o TimeSpec) int {
	switch {
	case t.Secs != o.Secs:
		if t.Secs < o.Secs {
			return -1
		}
		return 1
	case t.Nsecs != o.Nsecs:
		if t.Nsecs < o.Nsecs {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Sub returns t - o as a signed duration-like TimeSpec (used by dedup's
// time-window comparison and timeadj's ordering check).
func (t TimeSpec) Sub(o TimeSpec) TimeSpec {
	tn := t.Secs*nsecPerSec + int64(t.Nsecs)
	on := o.Secs*nsecPerSec + int64(o.Nsecs)
	d := tn - on
	r := TimeSpec{}
	if d < 0 {
		r.Neg = true
		d = -d
	}
	r.Secs = d / nsecPerSec
	r.Nsecs = int32(d % nsecPerSec)
	return r
}

// Add returns t plus a signed adjustment a, with nanosecond carry (§4.4).
func (t TimeSpec) Add(a TimeSpec) TimeSpec {
	an := a.Secs*nsecPerSec + int64(a.Nsecs)
	if a.Neg {
		an = -an
	}
	tn := t.Secs*nsecPerSec + int64(t.Nsecs) + an
	r := TimeSpec{}
	if tn < 0 {
		r.Neg = true
		tn = -tn
	}
	r.Secs = tn / nsecPerSec
	r.Nsecs = int32(tn % nsecPerSec)
	return r
}
