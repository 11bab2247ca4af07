package pcapfile

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/pkt"
)

// Writer implements capio.Sink for the classic pcap format. It always
// writes little-endian byte order, whatever the host, with
// microsecond resolution, matching the teacher's preference for a
// single fixed wire convention (mrt's fixed big-endian) rather than
// mirroring whatever the input happened to use.
type Writer struct {
	dst   io.WriteCloser
	buf   *bufio.Writer
	order binary.ByteOrder
}

// Create opens a new output file (or stdout if path is "-") and writes
// the 24-byte global header, per §6 open_sink.
func Create(p capio.OpenParams) (capio.Sink, error) {
	var dst io.WriteCloser
	if p.Path == "-" {
		dst = nopCloseWriter{os.Stdout}
	} else {
		fh, err := os.Create(p.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", capio.ErrOutputOpen, err)
		}
		dst = fh
	}

	w := &Writer{
		dst:   dst,
		buf:   bufio.NewWriter(dst),
		order: binary.LittleEndian,
	}

	var hdr [globalHeaderLen]byte
	// The magic constants are the first four file bytes read big-endian
	// (as Open reads them), so a little-endian file starts with the bytes
	// of magicMicroLE in that order.
	binary.BigEndian.PutUint32(hdr[0:4], magicMicroLE)
	w.order.PutUint16(hdr[4:6], 2)
	w.order.PutUint16(hdr[6:8], 4)
	// ThisZone, SigFigs left zero, matching tcpdump's own convention.
	w.order.PutUint32(hdr[16:20], p.Snaplen)
	w.order.PutUint32(hdr[20:24], uint32(p.Encap))

	if _, err := w.buf.Write(hdr[:]); err != nil {
		dst.Close()
		return nil, fmt.Errorf("%w: %v", capio.ErrOutputOpen, err)
	}
	return w, nil
}

// Write appends one record header and its payload.
func (w *Writer) Write(ctx context.Context, rec pkt.Record, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var hdr [recordHeaderLen]byte
	w.order.PutUint32(hdr[0:4], uint32(rec.Time.Secs))
	w.order.PutUint32(hdr[4:8], uint32(rec.Time.Nsecs/1000)) // microsecond resolution
	w.order.PutUint32(hdr[8:12], uint32(len(payload)))
	w.order.PutUint32(hdr[12:16], uint32(rec.Len))

	if _, err := w.buf.Write(hdr[:]); err != nil {
		return fmt.Errorf("%w: %v", capio.ErrWrite, err)
	}
	if _, err := w.buf.Write(payload); err != nil {
		return fmt.Errorf("%w: %v", capio.ErrWrite, err)
	}
	return nil
}

func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("%w: %v", capio.ErrClose, err)
	}
	if err := w.dst.Close(); err != nil {
		return fmt.Errorf("%w: %v", capio.ErrClose, err)
	}
	return nil
}

// nopCloseWriter adapts os.Stdout (which must not be closed by Close)
// to io.WriteCloser.
type nopCloseWriter struct{ io.Writer }

func (nopCloseWriter) Close() error { return nil }
