package pipe

import (
	"context"
	"io"
	"testing"

	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/pkt"
	"github.com/capfix/capfix/ranges"
	"github.com/capfix/capfix/split"
	"github.com/stretchr/testify/require"
)

// memSource replays a fixed slice of records, implementing capio.Source.
type memSource struct {
	recs []pkt.Record
	pos  int
}

func (s *memSource) Pull(ctx context.Context) (pkt.Record, int64, error) {
	if s.pos >= len(s.recs) {
		return pkt.Record{}, 0, io.EOF
	}
	r := s.recs[s.pos]
	s.pos++
	return r, 0, nil
}

func (s *memSource) FileEncap() capio.EncapTag { return capio.EncapUnknown }
func (s *memSource) FileType() capio.TypeTag   { return capio.TypeUnknown }
func (s *memSource) SnapshotLength() uint32    { return 65535 }
func (s *memSource) Close() error              { return nil }

// memSink records every write it sees, implementing capio.Sink.
type memSink struct {
	path    string
	records []pkt.Record
	closed  bool
}

func (s *memSink) Write(ctx context.Context, rec pkt.Record, payload []byte) error {
	cp := rec
	cp.Payload = append([]byte(nil), payload...)
	s.records = append(s.records, cp)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

// memOpener hands out a new memSink per call and remembers all of them,
// so split-roll tests can inspect each file's contents.
type memOpener struct {
	sinks []*memSink
}

func (o *memOpener) open(p capio.OpenParams) (capio.Sink, error) {
	s := &memSink{path: p.Path}
	o.sinks = append(o.sinks, s)
	return s, nil
}

func mkRecord(index uint64, secs int64, payload string) pkt.Record {
	return pkt.Record{
		Kind:         pkt.Packet,
		HasTimestamp: true,
		Time:         pkt.TimeSpec{Secs: secs},
		Caplen:       len(payload),
		Len:          len(payload),
		Payload:      []byte(payload),
	}
}

func TestRun_PassthroughWithNoStages(t *testing.T) {
	src := &memSource{recs: []pkt.Record{
		mkRecord(0, 0, "aaaa"),
		mkRecord(0, 1, "bbbb"),
	}}
	opener := &memOpener{}

	d := NewDriver()
	d.Options.Source = src
	d.Options.OpenSink = opener.open
	d.Options.SinkBase = capio.OpenParams{Path: "/tmp/out.pcap"}

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, opener.sinks, 1)
	require.Len(t, opener.sinks[0].records, 2)
	require.EqualValues(t, 2, d.Stats.Read)
	require.EqualValues(t, 2, d.Stats.Written)
}

func TestRun_SelectionDefaultDeletesSelected(t *testing.T) {
	// editcap's default (-r unset) deletes the selected records rather
	// than keeping only them.
	src := &memSource{recs: []pkt.Record{
		mkRecord(0, 0, "aaaa"),
		mkRecord(0, 1, "bbbb"),
		mkRecord(0, 2, "cccc"),
	}}
	opener := &memOpener{}

	sel := ranges.NewSet()
	sel.AddSingle(2)

	d := NewDriver()
	d.Options.Source = src
	d.Options.OpenSink = opener.open
	d.Options.SinkBase = capio.OpenParams{Path: "/tmp/out.pcap"}
	d.Options.Selection = sel

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, opener.sinks[0].records, 2)
	require.Equal(t, []byte("aaaa"), opener.sinks[0].records[0].Payload)
	require.Equal(t, []byte("cccc"), opener.sinks[0].records[1].Payload)
	require.EqualValues(t, 1, d.Stats.DroppedSelection)
}

func TestRun_SelectionInvertKeepsOnlySelected(t *testing.T) {
	// -r switches to keep-only-selected.
	src := &memSource{recs: []pkt.Record{
		mkRecord(0, 0, "aaaa"),
		mkRecord(0, 1, "bbbb"),
		mkRecord(0, 2, "cccc"),
	}}
	opener := &memOpener{}

	sel := ranges.NewSet()
	sel.AddSingle(2)

	d := NewDriver()
	d.Options.Source = src
	d.Options.OpenSink = opener.open
	d.Options.SinkBase = capio.OpenParams{Path: "/tmp/out.pcap"}
	d.Options.Selection = sel
	d.Options.InvertSelection = true

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, opener.sinks[0].records, 1)
	require.Equal(t, []byte("bbbb"), opener.sinks[0].records[0].Payload)
	require.EqualValues(t, 2, d.Stats.DroppedSelection)
}

func TestRun_TimeWindowS1(t *testing.T) {
	// S1: 3 packets at 0.0, 1.0, 2.0; window [1,2). Expect only the second.
	src := &memSource{recs: []pkt.Record{
		mkRecord(0, 0, "p0"),
		mkRecord(0, 1, "p1"),
		mkRecord(0, 2, "p2"),
	}}
	opener := &memOpener{}

	d := NewDriver()
	d.Options.Source = src
	d.Options.OpenSink = opener.open
	d.Options.SinkBase = capio.OpenParams{Path: "/tmp/out.pcap"}
	d.Options.HaveTimeWindow = true
	d.Options.StartTime = pkt.TimeSpec{Secs: 1}
	d.Options.StopTime = pkt.TimeSpec{Secs: 2}

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, opener.sinks[0].records, 1)
	require.Equal(t, []byte("p1"), opener.sinks[0].records[0].Payload)
}

func TestRun_SplitByCountS6(t *testing.T) {
	var recs []pkt.Record
	for i := 0; i < 5; i++ {
		recs = append(recs, mkRecord(0, int64(i), "x"))
	}
	src := &memSource{recs: recs}
	opener := &memOpener{}

	s, err := split.New("/tmp/out.pcap", split.ByCount, 2, pkt.TimeSpec{})
	require.NoError(t, err)

	d := NewDriver()
	d.Options.Source = src
	d.Options.OpenSink = opener.open
	d.Options.SinkBase = capio.OpenParams{Path: "/tmp/out.pcap"}
	d.Options.Split = s

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, opener.sinks, 3)
	require.Len(t, opener.sinks[0].records, 2)
	require.Len(t, opener.sinks[1].records, 2)
	require.Len(t, opener.sinks[2].records, 1)
}

func TestRun_EmptyInputProducesOneEmptySink(t *testing.T) {
	src := &memSource{}
	opener := &memOpener{}

	d := NewDriver()
	d.Options.Source = src
	d.Options.OpenSink = opener.open
	d.Options.SinkBase = capio.OpenParams{Path: "/tmp/out.pcap"}

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, opener.sinks, 1)
	require.Len(t, opener.sinks[0].records, 0)
	require.True(t, opener.sinks[0].closed)
}
