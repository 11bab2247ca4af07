// Package capio defines the §6 capture-library contract: the Source
// and Sink interfaces the Driver pulls from and emits to, plus the
// opaque encapsulation/file-type tag registries. Concrete
// implementations (e.g. classic pcap) live in sibling packages and
// satisfy these interfaces; capio itself knows nothing about any wire
// format.
package capio

import (
	"context"

	"github.com/capfix/capfix/pkt"
)

// EncapTag identifies a link-layer encapsulation. The zero value is
// reserved for "unknown".
type EncapTag uint32

// TypeTag identifies a capture file format (pcap, pcapng, ...).
type TypeTag uint32

const (
	EncapUnknown EncapTag = 0
	TypeUnknown  TypeTag  = 0
)

// Source yields records one at a time. Pull's returned payload is a
// borrowed alias valid only until the next Pull call or until the
// Source is closed; a stage that needs to retain bytes past that point
// must copy them (see pkt.Record.Clone).
type Source interface {
	// Pull returns the next record and its original byte offset in the
	// underlying file, or io.EOF when exhausted.
	Pull(ctx context.Context) (rec pkt.Record, offset int64, err error)

	FileEncap() EncapTag
	FileType() TypeTag
	SnapshotLength() uint32

	Close() error
}

// Sink accepts records for a single open output file. The Driver opens
// a new Sink each time SplitRoll crosses a boundary.
type Sink interface {
	Write(ctx context.Context, rec pkt.Record, payload []byte) error
	Close() error
}

// OpenParams bundles the write-side options needed to open a Sink,
// mirroring §6's open_sink(path, type, encap, snaplen, ng_params).
type OpenParams struct {
	Path     string // "-" means stdout
	Type     TypeTag
	Encap    EncapTag
	Snaplen  uint32
	NGParams map[string]string // opaque pcapng shb/idb options, format-specific
}

// SourceOpener opens a Source given a path and whether the
// implementation should auto-detect the file type from its magic
// number rather than trust an explicit -F flag.
type SourceOpener func(path string, autoDetect bool) (Source, error)

// SinkOpener opens a Sink from OpenParams.
type SinkOpener func(p OpenParams) (Sink, error)

// TypeInfo and EncapInfo back list_types()/list_encaps() for CLI help
// and -F/-T empty-argument enumeration.
type TypeInfo struct {
	Tag  TypeTag
	Name string
}

type EncapInfo struct {
	Tag  EncapTag
	Name string
}
