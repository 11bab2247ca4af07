package split

import (
	"testing"

	"github.com/capfix/capfix/pkt"
	"github.com/stretchr/testify/require"
)

func TestFilename_WithTimestamp(t *testing.T) {
	s, err := New("/tmp/out.pcap", ByCount, 2, pkt.TimeSpec{})
	require.NoError(t, err)
	name := s.Filename(pkt.TimeSpec{Secs: 1704067200}, true) // 2024-01-01 00:00:00 UTC
	require.Equal(t, "/tmp/out_00000_20240101000000.pcap", name)
}

func TestFilename_WithoutTimestamp(t *testing.T) {
	s, err := New("/tmp/out.pcap", ByCount, 2, pkt.TimeSpec{})
	require.NoError(t, err)
	name := s.Filename(pkt.TimeSpec{}, false)
	require.Equal(t, "/tmp/out_00000.pcap", name)
}

func TestFilename_NoExtensionWholeNameIsPrefix(t *testing.T) {
	s, err := New("/tmp/dump", ByCount, 2, pkt.TimeSpec{})
	require.NoError(t, err)
	name := s.Filename(pkt.TimeSpec{}, false)
	require.Equal(t, "/tmp/dump_00000", name)
}

func TestFilename_IndexWrapsAt100000(t *testing.T) {
	s, err := New("/tmp/out.pcap", ByCount, 2, pkt.TimeSpec{})
	require.NoError(t, err)
	s.FileIndex = 100000
	require.Equal(t, "/tmp/out_00000.pcap", s.Filename(pkt.TimeSpec{}, false))
}

func TestByCount_S6SplitFiveIntoThree(t *testing.T) {
	s, err := New("/tmp/out.pcap", ByCount, 2, pkt.TimeSpec{})
	require.NoError(t, err)

	sizes := []int{0}
	for i := 0; i < 5; i++ {
		s.RecordWritten()
		sizes[len(sizes)-1]++
		if s.ShouldRollCount() {
			s.Roll()
			sizes = append(sizes, 0)
		}
	}
	require.Equal(t, []int{2, 2, 1}, sizes)
}

func TestByInterval_RollsOnBoundary(t *testing.T) {
	s, err := New("/tmp/out.pcap", ByInterval, 0, pkt.TimeSpec{Secs: 10})
	require.NoError(t, err)

	s.SetIntervalStart(pkt.TimeSpec{Secs: 0})
	require.False(t, s.ShouldRollInterval(pkt.TimeSpec{Secs: 5}))
	require.True(t, s.ShouldRollInterval(pkt.TimeSpec{Secs: 10})) // == boundary, nsecs 0 >= 0
	require.True(t, s.ShouldRollInterval(pkt.TimeSpec{Secs: 11}))
}

func TestByInterval_LargeGapSkipsSeveralIntervals(t *testing.T) {
	s, err := New("/tmp/out.pcap", ByInterval, 0, pkt.TimeSpec{Secs: 10})
	require.NoError(t, err)
	s.SetIntervalStart(pkt.TimeSpec{Secs: 0})

	s.AdvanceInterval(pkt.TimeSpec{Secs: 35})
	require.False(t, s.ShouldRollInterval(pkt.TimeSpec{Secs: 35}))
}

func TestNew_ZeroCountRejected(t *testing.T) {
	_, err := New("/tmp/out.pcap", ByCount, 0, pkt.TimeSpec{})
	require.Error(t, err)
}
