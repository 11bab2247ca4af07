// Package chop implements the §4.2 chopping engine: a pure function that
// removes up to two regions (one anchored at each end) from a packet
// payload, with optional reported-length adjustment.
package chop

// Spec accumulates up to two -C flags (§3 ChopSpec): one begin-anchored
// cut and one end-anchored cut, each with a positive and a negative
// offset component.
type Spec struct {
	LenBegin    int // >= 0
	OffBeginPos int // >= 0
	OffBeginNeg int // <= 0

	LenEnd    int // <= 0 (magnitude is the cut size)
	OffEndPos int // >= 0
	OffEndNeg int // <= 0

	// AdjLen requests that Len be decremented by the same amounts as
	// Caplen (the -L flag).
	AdjLen bool
}

// IsZero reports whether s removes nothing at all (§8 property 2).
func (s Spec) IsZero() bool {
	return s.LenBegin == 0 && s.LenEnd == 0 &&
		s.OffBeginPos == 0 && s.OffBeginNeg == 0 &&
		s.OffEndPos == 0 && s.OffEndNeg == 0
}

// normalize applies the five §4.2 normalization steps to a copy of s,
// given the payload's current caplen.
func normalize(s Spec, caplen int) Spec {
	// step 1: zero offsets of a zero-length cut
	if s.LenBegin == 0 {
		s.OffBeginPos, s.OffBeginNeg = 0, 0
	}
	if s.LenEnd == 0 {
		s.OffEndPos, s.OffEndNeg = 0, 0
	}

	// step 2: negative begin-offset -> positive, relative to caplen
	if s.OffBeginNeg != 0 {
		s.OffBeginPos += caplen + s.OffBeginNeg
		s.OffBeginNeg = 0
	}

	// step 3: positive end-offset -> negative, relative to caplen
	if s.OffEndPos != 0 {
		s.OffEndNeg += s.OffEndPos - caplen
		s.OffEndPos = 0
	}

	// step 4: if the two regions cross, swap them (each becomes the
	// other's mirror)
	beginStart := s.OffBeginPos
	endStartFromBegin := caplen + s.OffEndNeg // start of the end-region, measured from the buffer start
	if beginStart > endStartFromBegin {
		s.LenBegin, s.LenEnd = s.LenEnd, s.LenBegin
		s.OffBeginPos, s.OffEndNeg = endStartFromBegin, s.OffBeginPos-caplen
	}

	// step 5a: clamp absolute offsets that exceed caplen
	if s.OffBeginPos > caplen || -s.OffEndNeg > caplen || s.OffBeginPos < 0 || s.OffEndNeg > 0 {
		s.LenBegin, s.LenEnd = 0, 0
		s.OffBeginPos, s.OffBeginNeg, s.OffEndPos, s.OffEndNeg = 0, 0, 0, 0
	}

	// step 5b: clamp total chop magnitude to what remains. The two
	// regions together would remove more than the whole buffer, so
	// collapse to a single begin-anchored cut of everything (§8
	// property 3: caplen' == 0).
	magBegin := s.LenBegin
	magEnd := -s.LenEnd
	if magBegin+magEnd > caplen {
		s.LenBegin = caplen
		s.LenEnd = 0
		s.OffBeginPos, s.OffBeginNeg = 0, 0
		s.OffEndPos, s.OffEndNeg = 0, 0
	}

	return s
}

// Apply removes up to two regions from payload per spec, returning the
// new caplen, new len, and the mutated-in-place payload slice (re-sliced
// to its new length; callers must not assume the backing array position
// is unchanged).
//
// Apply never allocates: it rewrites payload in place via range copies,
// matching the borrowed-buffer contract in §5 ("stages that mutate
// payloads write through a mutable alias").
func Apply(s Spec, caplen, length int, payload []byte) (newCaplen, newLen int, newPayload []byte) {
	if s.IsZero() {
		return caplen, length, payload
	}

	n := normalize(s, caplen)

	begin := n.LenBegin
	end := -n.LenEnd // magnitude, >= 0

	// begin-chop
	if begin > 0 {
		if n.OffBeginPos > 0 {
			// memmove payload[off+begin : caplen) -> payload[off : ...)
			copy(payload[n.OffBeginPos:], payload[n.OffBeginPos+begin:caplen])
			payload = payload[:len(payload)-begin]
		} else {
			payload = payload[begin:]
		}
		caplen -= begin
	}

	// end-chop
	if end > 0 {
		if n.OffEndNeg < 0 {
			// preserved tail starts this many bytes before the original end
			tailLen := -n.OffEndNeg - end
			if tailLen > 0 {
				// shift the preserved trailing tail left by `end` bytes
				copy(payload[len(payload)-tailLen-end:], payload[len(payload)-tailLen:])
			}
		}
		caplen -= end
		payload = payload[:len(payload)-end]
	}

	if s.AdjLen {
		length -= begin + end
		if length < 0 {
			length = 0
		}
	}

	return caplen, length, payload
}
