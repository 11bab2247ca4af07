package pcapfile

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/pkt"
	"github.com/rs/zerolog"
)

// Reader implements capio.Source over a classic pcap byte stream.
// Unlike the teacher's mrt.Reader (fixed big-endian wire format),
// Reader's byte order is not known until the global header's magic
// number is read, so all multi-byte fields are decoded through a
// binary.ByteOrder chosen at Open time.
type Reader struct {
	*zerolog.Logger

	src     io.ReadCloser
	order   binary.ByteOrder
	nanoRes bool
	encap   capio.EncapTag
	snaplen uint32

	hdrBuf [recordHeaderLen]byte
	index  uint64
	offset int64
}

// Open reads and validates the global header at path, transparently
// uncompressing .gz and .bz2 inputs exactly as the teacher's
// mrt.Reader.ReadFromPath does, and returns a ready-to-Pull Reader.
// autoDetect is accepted for §6 contract symmetry with open_source;
// this format has no ambiguity to resolve beyond the magic number, so
// the flag does not change behavior.
func Open(path string, autoDetect bool) (capio.Source, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", capio.ErrInputOpen, err)
	}

	var rd io.ReadCloser = fh
	switch filepath.Ext(path) {
	case ".bz2":
		rd = io.NopCloser(bzip2.NewReader(fh))
	case ".gz":
		gzr, gerr := gzip.NewReader(fh)
		if gerr != nil {
			fh.Close()
			return nil, fmt.Errorf("%w: %v", capio.ErrInputOpen, gerr)
		}
		rd = gzr
	}

	var raw [globalHeaderLen]byte
	if _, err := io.ReadFull(rd, raw[:]); err != nil {
		rd.Close()
		return nil, fmt.Errorf("%w: %v", capio.ErrInputOpen, ErrShortHeader)
	}

	magic := binary.BigEndian.Uint32(raw[0:4])
	order, nanoRes, ok := byteOrderOf(magic)
	if !ok {
		// the magic bytes might need little-endian reinterpretation
		magic = binary.LittleEndian.Uint32(raw[0:4])
		order, nanoRes, ok = byteOrderOf(magic)
	}
	if !ok {
		rd.Close()
		return nil, fmt.Errorf("%w: %v", capio.ErrInputOpen, ErrBadMagic)
	}

	r := &Reader{
		src:     rd,
		order:   order,
		nanoRes: nanoRes,
		encap:   capio.EncapTag(order.Uint32(raw[20:24])),
		snaplen: order.Uint32(raw[16:20]),
		offset:  globalHeaderLen,
	}
	l := zerolog.Nop()
	r.Logger = &l
	return r, nil
}

func (r *Reader) FileEncap() capio.EncapTag      { return r.encap }
func (r *Reader) FileType() capio.TypeTag        { return TypeClassic }
func (r *Reader) SnapshotLength() uint32         { return r.snaplen }

// Pull reads the next record header and payload. The returned
// Record's Payload is a freshly allocated slice for each call, which
// satisfies the capio.Source borrow contract.
func (r *Reader) Pull(ctx context.Context) (pkt.Record, int64, error) {
	if err := ctx.Err(); err != nil {
		return pkt.Record{}, 0, err
	}

	if _, err := io.ReadFull(r.src, r.hdrBuf[:]); err != nil {
		if err == io.EOF {
			return pkt.Record{}, 0, io.EOF
		}
		return pkt.Record{}, 0, fmt.Errorf("%w: %v", capio.ErrRead, ErrShortRecord)
	}

	hdr := recordHeader{
		TsSec:   r.order.Uint32(r.hdrBuf[0:4]),
		TsFrac:  r.order.Uint32(r.hdrBuf[4:8]),
		InclLen: r.order.Uint32(r.hdrBuf[8:12]),
		OrigLen: r.order.Uint32(r.hdrBuf[12:16]),
	}

	payload := make([]byte, hdr.InclLen)
	if _, err := io.ReadFull(r.src, payload); err != nil {
		return pkt.Record{}, 0, fmt.Errorf("%w: %v", capio.ErrRead, ErrShortPayload)
	}

	nsecs := hdr.TsFrac
	if !r.nanoRes {
		nsecs *= 1000
	}

	rec := pkt.Record{
		Kind:         pkt.Packet,
		HasTimestamp: true,
		Time:         pkt.TimeSpec{Secs: int64(hdr.TsSec), Nsecs: int32(nsecs)},
		Caplen:       int(hdr.InclLen),
		Len:          int(hdr.OrigLen),
		Encap:        pkt.EncapTag(r.encap),
		Payload:      payload,
		Index:        r.index + 1,
	}

	offset := r.offset
	r.offset += recordHeaderLen + int64(hdr.InclLen)
	r.index++
	return rec, offset, nil
}

func (r *Reader) Close() error {
	return r.src.Close()
}
