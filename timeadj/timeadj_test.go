package timeadj

import (
	"testing"

	"github.com/capfix/capfix/pkt"
	"github.com/stretchr/testify/require"
)

func TestApply_S4AlreadyMonotonicUnchanged(t *testing.T) {
	s := New(pkt.TimeSpec{Nsecs: 1000}) // 0.000001s
	in := []pkt.TimeSpec{{Secs: 0}, {Secs: 0, Nsecs: 500_000_000}, {Secs: 1}}
	for _, ts := range in {
		out := s.Apply(ts)
		require.Equal(t, ts, out)
	}
}

func TestApply_S5TiedTimestampsRewrittenForward(t *testing.T) {
	s := New(pkt.TimeSpec{Nsecs: 1000}) // 0.000001s
	ts := pkt.TimeSpec{Secs: 0}

	out1 := s.Apply(ts)
	require.Equal(t, pkt.TimeSpec{Secs: 0}, out1)

	out2 := s.Apply(ts)
	require.Equal(t, pkt.TimeSpec{Secs: 0, Nsecs: 1000}, out2)

	out3 := s.Apply(ts)
	require.Equal(t, pkt.TimeSpec{Secs: 0, Nsecs: 2000}, out3)
}

func TestApply_Monotonicity(t *testing.T) {
	s := New(pkt.TimeSpec{Nsecs: 1})
	in := []pkt.TimeSpec{{Secs: 5}, {Secs: 3}, {Secs: 3}, {Secs: 10}, {Secs: 1}}
	var prev pkt.TimeSpec
	var have bool
	for _, ts := range in {
		out := s.Apply(ts)
		if have {
			require.True(t, out.Compare(prev) >= 0, "timestamps must be non-decreasing")
		}
		prev, have = out, true
	}
}

func TestApply_NegativeAdjustmentForcesExactSpacingExceptFirst(t *testing.T) {
	neg := pkt.TimeSpec{Secs: 1, Neg: true}
	s := New(neg)

	first := pkt.TimeSpec{Secs: 100}
	out1 := s.Apply(first)
	require.Equal(t, first, out1, "first record always passes through verbatim")

	out2 := s.Apply(pkt.TimeSpec{Secs: 999}) // input ignored in forced mode
	require.Equal(t, pkt.TimeSpec{Secs: 101}, out2)

	out3 := s.Apply(pkt.TimeSpec{Secs: 5})
	require.Equal(t, pkt.TimeSpec{Secs: 102}, out3)

	require.Equal(t, int64(1), out2.Sub(out1).Secs)
	require.False(t, out2.Sub(out1).Neg)
	require.Equal(t, int64(1), out3.Sub(out2).Secs)
}
