package fuzz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApply_DeterministicWithSameSeed(t *testing.T) {
	orig := []byte("the quick brown fox jumps over the lazy dog")

	run := func() []byte {
		buf := append([]byte(nil), orig...)
		s := New(0.5, 0, 12345)
		s.Apply(buf, 0)
		return buf
	}

	a := run()
	b := run()
	require.Equal(t, a, b)
}

func TestApply_DifferentSeedsDiverge(t *testing.T) {
	orig := []byte("the quick brown fox jumps over the lazy dog 0123456789")

	run := func(seed uint64) []byte {
		buf := append([]byte(nil), orig...)
		s := New(1.0, 0, seed)
		s.Apply(buf, 0)
		return buf
	}

	require.NotEqual(t, run(1), run(2))
}

func TestApply_CaplenUnchanged(t *testing.T) {
	buf := []byte("0123456789")
	s := New(1.0, 0, 42)
	before := len(buf)
	s.Apply(buf, 0)
	require.Equal(t, before, len(buf))
}

func TestApply_SkipPrefixUntouched(t *testing.T) {
	buf := []byte("0123456789")
	orig := append([]byte(nil), buf...)
	s := New(1.0, 4, 7)
	s.Apply(buf, 0)
	require.Equal(t, orig[:4], buf[:4])
}

func TestApply_ExtraSkipForDCT2000(t *testing.T) {
	buf := []byte("0123456789")
	orig := append([]byte(nil), buf...)
	s := New(1.0, 2, 7)
	s.Apply(buf, 3) // skip_prefix(2) + dct2000 header(3) = 5
	require.Equal(t, orig[:5], buf[:5])
}

func TestApply_ZeroProbabilityNoChanges(t *testing.T) {
	buf := []byte("0123456789")
	orig := append([]byte(nil), buf...)
	s := New(0.0, 0, 7)
	touched := s.Apply(buf, 0)
	require.Equal(t, 0, touched)
	require.Equal(t, orig, buf)
}

func TestSeed_XorsTimeAndPid(t *testing.T) {
	require.Equal(t, uint64(0), Seed(0, 0))
	require.NotEqual(t, Seed(100, 5), Seed(100, 6))
}
