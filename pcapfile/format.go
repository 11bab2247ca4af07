// Package pcapfile implements capio.Source and capio.Sink for the
// classic (non-next-generation) pcap file format: a 24-byte global
// header followed by a stream of (16-byte record header, payload)
// pairs. It is the concrete capture-library implementation behind the
// §6 contract's open_source/pull/open_sink/write/close operations.
package pcapfile

import "encoding/binary"

// Magic numbers identifying byte order and timestamp resolution. The
// file's own magic, not a -F flag, decides which to use — open_source's
// auto_detect path always applies.
const (
	magicMicroBE = 0xa1b2c3d4
	magicMicroLE = 0xd4c3b2a1
	magicNanoBE  = 0xa1b23c4d
	magicNanoLE  = 0x4d3cb2a1
)

const globalHeaderLen = 24
const recordHeaderLen = 16

// globalHeader is the classic pcap file header, in file byte order.
type globalHeader struct {
	Magic        uint32
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32
	SigFigs      uint32
	SnapLen      uint32
	Network      uint32 // link-layer type (capio.EncapTag)
}

// recordHeader precedes each captured packet.
type recordHeader struct {
	TsSec   uint32
	TsFrac  uint32 // microseconds, or nanoseconds if nano-resolution magic
	InclLen uint32 // caplen
	OrigLen uint32 // len
}

// byteOrderOf reports the binary.ByteOrder and nanosecond-resolution
// flag for a given magic number, or ok=false if unrecognized.
func byteOrderOf(magic uint32) (order binary.ByteOrder, nanoRes bool, ok bool) {
	switch magic {
	case magicMicroBE:
		return binary.BigEndian, false, true
	case magicMicroLE:
		return binary.LittleEndian, false, true
	case magicNanoBE:
		return binary.BigEndian, true, true
	case magicNanoLE:
		return binary.LittleEndian, true, true
	default:
		return nil, false, false
	}
}
