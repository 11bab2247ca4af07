// Package pkt defines the Record and TimeSpec types that flow through
// the capfix pipeline, along with the errors the rest of the module
// returns when a Record or TimeSpec is malformed.
package pkt

// Kind identifies which capture-library record type a Record was pulled
// from. Only Packet carries payload bytes that the pipeline mutates;
// the other kinds pass through most stages untouched.
type Kind uint8

//go:generate go run github.com/dmarkham/enumer -type Kind
const (
	Packet Kind = iota
	FtSpecificEvent
	FtSpecificReport
	Syscall
	Other
)

// EncapTag is an opaque link-layer encapsulation identifier, as returned
// by the capture library (capio.Source.FileEncap / per-record encap).
// Values are defined by the capio/pcapfile packages, not here, since §1
// treats the capture library as an external collaborator.
type EncapTag int32

// Record is the unit transferred through the pipeline (§3).
//
// Invariant: for Kind == Packet, len(Payload) == Caplen at every stage
// boundary (§8 property 1). Stages that mutate metadata only must copy
// the Record value rather than mutate a shared one, so the Source's
// internal state is undisturbed between pulls (§5).
type Record struct {
	Kind Kind

	HasTimestamp bool
	Time         TimeSpec

	Caplen int // bytes actually stored (len(Payload))
	Len    int // bytes originally reported on the wire

	Encap EncapTag

	Payload []byte

	Comment        string
	CommentChanged bool

	// Index is the 1-based position of this record in the input stream,
	// as counted by the Driver's read_count (§4.1). Stages read this for
	// Selection/Comment lookups; they must not mutate it.
	Index uint64
}

// Clone returns a shallow copy of r with its own Payload backing array,
// for the rare stage that must hold on to a Record past the next pull.
func (r Record) Clone() Record {
	c := r
	if r.Payload != nil {
		c.Payload = append([]byte(nil), r.Payload...)
	}
	return c
}
