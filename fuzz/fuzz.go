// Package fuzz implements the §4.5 deterministic fuzzer: a seedable,
// reproducible weighted-random payload corruption engine.
package fuzz

import (
	"math/rand/v2"
)

// class is one of the five §4.5 error classes.
type class int

const (
	classBit class = iota
	classByte
	classAlnum
	classFmt
	classAA
)

// weights, in the order DESIGN NOTES §9 recommends collapsing into a
// single inverse-CDF table rather than a nested if/else cascade.
var weightedClasses = buildTable([]struct {
	c class
	w int
}{
	{classBit, 5},
	{classByte, 5},
	{classAlnum, 5},
	{classFmt, 2},
	{classAA, 1},
})

// buildTable expands each class into `w` repeated entries, so picking a
// uniform index over the resulting slice is a weighted choice. With
// total weight 18 this is cheap and exact; spec.md doesn't call for
// more precision than that.
func buildTable(entries []struct {
	c class
	w int
}) []class {
	var t []class
	for _, e := range entries {
		for i := 0; i < e.w; i++ {
			t = append(t, e.c)
		}
	}
	return t
}

const alnumAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// State is the §3 FuzzState.
type State struct {
	Probability float64
	SkipPrefix  int

	rng *rand.Rand
}

// New returns a State seeded deterministically from seed, used as-is;
// Seed derives one from wall-clock time and pid when the user supplies
// none (§4.5).
func New(probability float64, skipPrefix int, seed uint64) *State {
	return &State{
		Probability: probability,
		SkipPrefix:  skipPrefix,
		rng:         rand.New(rand.NewPCG(seed, seed>>32|1)),
	}
}

// Seed derives the default seed from wall-clock time XOR process id, for
// callers that did not supply --seed (§4.5).
func Seed(unixNano int64, pid int) uint64 {
	return uint64(unixNano) ^ uint64(uint32(pid))
}

// Apply corrupts payload in place starting at s.SkipPrefix + extraSkip
// (the caller adds the DCT2000 header length there when applicable),
// per-byte, per §4.5. Returns the number of bytes actually touched, for
// verbose diagnostics.
func (s *State) Apply(payload []byte, extraSkip int) (touched int) {
	start := s.SkipPrefix + extraSkip
	if start < 0 {
		start = 0
	}

	for i := start; i < len(payload); i++ {
		if s.rng.Float64() >= s.Probability {
			continue
		}
		touched++

		switch weightedClasses[s.rng.IntN(len(weightedClasses))] {
		case classBit:
			payload[i] ^= 1 << s.rng.IntN(8)
		case classByte:
			payload[i] = byte(s.rng.IntN(256))
		case classAlnum:
			payload[i] = alnumAlphabet[s.rng.IntN(len(alnumAlphabet))]
		case classFmt:
			if i+2 <= len(payload) {
				payload[i] = '%'
				payload[i+1] = 's'
			}
		case classAA:
			for j := i; j < len(payload); j++ {
				payload[j] = 0xAA
			}
			return touched
		}
	}
	return touched
}
