package pcapfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/pkt"
	"github.com/stretchr/testify/require"
)

func TestWriteThenRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pcap")

	sink, err := Create(capio.OpenParams{
		Path:    path,
		Type:    TypeClassic,
		Encap:   capio.EncapTag(LinktypeEthernet),
		Snaplen: 65535,
	})
	require.NoError(t, err)

	ctx := context.Background()
	recs := []pkt.Record{
		{Kind: pkt.Packet, HasTimestamp: true, Time: pkt.TimeSpec{Secs: 100, Nsecs: 0}, Len: 4},
		{Kind: pkt.Packet, HasTimestamp: true, Time: pkt.TimeSpec{Secs: 101, Nsecs: 500_000}, Len: 4},
	}
	payloads := [][]byte{[]byte("abcd"), []byte("efgh")}

	for i, r := range recs {
		require.NoError(t, sink.Write(ctx, r, payloads[i]))
	}
	require.NoError(t, sink.Close())

	src, err := Open(path, true)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, capio.EncapTag(LinktypeEthernet), src.FileEncap())
	require.Equal(t, capio.TypeTag(TypeClassic), src.FileType())
	require.EqualValues(t, 65535, src.SnapshotLength())

	got := 0
	for {
		rec, _, err := src.Pull(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Equal(t, payloads[got], rec.Payload)
		require.Equal(t, recs[got].Time.Secs, rec.Time.Secs)
		got++
	}
	require.Equal(t, 2, got)
}

func TestOpen_RejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pcap")
	require.NoError(t, os.WriteFile(path, make([]byte, globalHeaderLen), 0o644))

	_, err := Open(path, true)
	require.Error(t, err)
}

func TestOpen_RejectsShortFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.pcap")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	_, err := Open(path, true)
	require.Error(t, err)
}
