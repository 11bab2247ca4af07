package dedup

import (
	"crypto/md5"
	"testing"

	"github.com/capfix/capfix/pkt"
	"github.com/stretchr/testify/require"
)

func md5Hash(b []byte) Digest {
	return Digest(md5.Sum(b))
}

func TestLookupCount_ConsecutiveDuplicateDropped(t *testing.T) {
	c := NewCache(md5Hash)
	payload := []byte("hello world")

	c.Insert(payload, len(payload), pkt.TimeSpec{}, false, 0, 0)
	require.False(t, c.LookupCount(2))

	c.Insert(payload, len(payload), pkt.TimeSpec{}, false, 0, 0)
	require.True(t, c.LookupCount(2))
}

func TestLookupCount_DistinctPayloadsWithFullWindow(t *testing.T) {
	c := NewCache(md5Hash)
	payloads := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc"), []byte("dddd")}
	for _, p := range payloads {
		c.Insert(p, len(p), pkt.TimeSpec{}, false, 0, 0)
		require.False(t, c.LookupCount(len(payloads)))
	}
}

func TestLookupCount_WindowZeroNeverMatches(t *testing.T) {
	c := NewCache(md5Hash)
	payload := []byte("same")
	c.Insert(payload, len(payload), pkt.TimeSpec{}, false, 0, 0)
	c.Insert(payload, len(payload), pkt.TimeSpec{}, false, 0, 0)
	require.False(t, c.LookupCount(0))
}

func TestLookupCount_WindowOneNoComparisonsOtherThanSelf(t *testing.T) {
	c := NewCache(md5Hash)
	payloads := [][]byte{[]byte("x"), []byte("y"), []byte("z")}
	for _, p := range payloads {
		c.Insert(p, len(p), pkt.TimeSpec{}, false, 0, 0)
		require.False(t, c.LookupCount(1))
	}
}

func TestLookupTime_OutsideWindowBothEmitted(t *testing.T) {
	c := NewCache(md5Hash)
	payload := []byte("dup")
	window := pkt.TimeSpec{Secs: 5}

	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 0}, true, 0, 0)
	require.False(t, c.LookupTime(window))

	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 10}, true, 0, 0)
	require.False(t, c.LookupTime(window)) // 10s gap > 5s window
}

func TestLookupTime_WithinWindowDropsDuplicate(t *testing.T) {
	c := NewCache(md5Hash)
	payload := []byte("dup")
	window := pkt.TimeSpec{Secs: 5}

	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 0}, true, 0, 0)
	require.False(t, c.LookupTime(window))

	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 2}, true, 0, 0)
	require.True(t, c.LookupTime(window))
}

func TestLookupTime_OutOfOrderSkippedNotBroken(t *testing.T) {
	c := NewCache(md5Hash)
	payload := []byte("dup")
	window := pkt.TimeSpec{Secs: 5}

	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 10}, true, 0, 0)
	// a record with a timestamp AHEAD of the one right before it arrives
	// (mild reordering/jitter); relative to a later current record this
	// slot's delta is negative, so it must be skipped rather than
	// mistaken for "outside the window" and stopping the sweep early.
	c.Insert([]byte("other"), 5, pkt.TimeSpec{Secs: 100}, true, 0, 0)
	require.False(t, c.LookupTime(window))

	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 11}, true, 0, 0)
	require.True(t, c.LookupTime(window))
}

func TestLookupTime_InOrderButStaleTerminatesSweep(t *testing.T) {
	// §4.3 rationale: the backward sweep assumes chronological order.
	// A record whose own timestamp is old (not ahead) still reads as
	// "in order" (delta >= 0) relative to later records, so hitting it
	// first outside the window stops the sweep even if an actual
	// duplicate sits further back in ring order.
	c := NewCache(md5Hash)
	payload := []byte("dup")
	window := pkt.TimeSpec{Secs: 5}

	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 10}, true, 0, 0)
	c.Insert([]byte("other"), 5, pkt.TimeSpec{Secs: 1}, true, 0, 0)
	c.Insert(payload, len(payload), pkt.TimeSpec{Secs: 11}, true, 0, 0)
	require.False(t, c.LookupTime(window))
}

func TestDigestOffset_RadiotapClampedWhenTooLong(t *testing.T) {
	require.Equal(t, 0, digestOffset(0, 50, 10))
	require.Equal(t, 5, digestOffset(0, 5, 10))
	require.Equal(t, 7, digestOffset(2, 5, 20))
}
