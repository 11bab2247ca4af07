// Package dedup implements the §4.3 duplicate detector: a fixed-capacity
// ring buffer of content digests shared by two lookup modes (fixed-count
// window and time-bounded window).
package dedup

import "github.com/capfix/capfix/pkt"

// MaxDepth is the ring's fixed capacity (§3: MAX_DUP_DEPTH = 1,000,000).
// Allocated once at NewCache and never shrunk even if the active window
// is small (§5).
const MaxDepth = 1_000_000

// Digest is a 16-byte content digest (MD5, per §1's external collaborator
// contract: "cryptographic hash primitive... assumed available as a pure
// function hash(bytes) -> 16-byte digest").
type Digest [16]byte

// HashFunc computes a Digest over a byte slice. Passed in by the caller
// (cmd/capfix) so dedup has no direct crypto/md5 import dependency
// and can be driven with a stub in tests.
type HashFunc func([]byte) Digest

type slot struct {
	digest Digest
	length uint32
	ts     pkt.TimeSpec
	tsSet  bool
}

// Cache is the shared ring buffer behind both dedup modes (§3 DedupCache).
type Cache struct {
	slots  [MaxDepth]slot
	cursor int
	filled int // number of slots ever written, capped at MaxDepth

	hash HashFunc
}

// NewCache allocates a new, empty Cache. The MaxDepth-sized array is part
// of the Cache value itself (no separate heap slice), matching §5's
// "single fixed allocation... reused" resource note — NewCache returns a
// pointer, and pipe.Options holds it as *dedup.Cache, so the array is
// never copied.
func NewCache(hash HashFunc) *Cache {
	return &Cache{hash: hash}
}

// digestOffset returns the byte offset into payload at which hashing
// should start, implementing the radiotap-skip rule from §4.3: the
// encap-specific header length is clamped to zero if it would consume
// the whole (or more than the whole) payload.
func digestOffset(ignoredPrefix int, radiotapLen int, caplen int) int {
	off := ignoredPrefix
	if radiotapLen > 0 {
		off += radiotapLen
	}
	if off >= caplen {
		return 0
	}
	return off
}

// Insert computes the digest for payload (skipping ignoredPrefix bytes,
// plus radiotapLen more when skip-radiotap applies) and stores it,
// caplen, and — when ts is provided — the record's timestamp, always
// advancing the cursor first (§4.3 Insert).
func (c *Cache) Insert(payload []byte, caplen int, ts pkt.TimeSpec, haveTS bool, ignoredPrefix, radiotapLen int) {
	c.cursor = (c.cursor + 1) % MaxDepth
	if c.filled < MaxDepth {
		c.filled++
	}

	off := digestOffset(ignoredPrefix, radiotapLen, caplen)
	d := c.hash(payload[off:caplen])

	s := &c.slots[c.cursor]
	s.digest = d
	s.length = uint32(caplen)
	s.ts = ts
	s.tsSet = haveTS
}

// LastDigest returns the digest most recently written by Insert — the
// DESIGN NOTES §9 warning applies: this must stay in sync with whatever
// slot Insert() last touched, or verbose logging prints the wrong digest.
func (c *Cache) LastDigest() Digest {
	return c.slots[c.cursor].digest
}

// LookupCount implements the §4.3 count-mode lookup: scan the window-1
// slots prior to cursor (bounded by how many slots have ever been
// filled), looking for an equal (length, digest) pair. The window
// includes the current slot itself (§4.3 property 5: "W=1 ⇒ no
// comparisons other than self"), so only window-1 priors are checked.
// window == 0 means no comparisons at all (but Insert still ran).
func (c *Cache) LookupCount(window int) bool {
	if window <= 0 {
		return false
	}
	if window > MaxDepth {
		window = MaxDepth
	}

	cur := &c.slots[c.cursor]
	n := c.filled
	if n > window-1 {
		n = window - 1
	}

	idx := c.cursor
	for i := 0; i < n; i++ {
		idx--
		if idx < 0 {
			idx += MaxDepth
		}
		if idx == c.cursor {
			break // full sweep
		}
		s := &c.slots[idx]
		if s.length == cur.length && s.digest == cur.digest {
			return true
		}
	}
	return false
}

// LookupTime implements the §4.3 time-mode lookup: sweep backward from
// cursor-1, stopping at the first uninitialized slot, the first slot
// outside relativeWindow, or a full sweep back to cursor. Out-of-order
// slots (delta < 0) are skipped without breaking the sweep.
func (c *Cache) LookupTime(relativeWindow pkt.TimeSpec) bool {
	cur := &c.slots[c.cursor]
	if !cur.tsSet {
		return false
	}

	idx := c.cursor
	for {
		idx--
		if idx < 0 {
			idx += MaxDepth
		}
		if idx == c.cursor {
			return false // full sweep
		}

		s := &c.slots[idx]
		if !s.tsSet {
			return false // uninitialized slot
		}

		delta := cur.ts.Sub(s.ts)
		if delta.Neg {
			continue // out-of-order: skip, keep sweeping
		}
		if delta.Compare(relativeWindow) > 0 {
			return false // outside the window
		}

		if s.length == cur.length && s.digest == cur.digest {
			return true
		}
	}
}
