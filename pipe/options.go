package pipe

import (
	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/chop"
	"github.com/capfix/capfix/dedup"
	"github.com/capfix/capfix/fuzz"
	"github.com/capfix/capfix/pkt"
	"github.com/capfix/capfix/ranges"
	"github.com/capfix/capfix/split"
	"github.com/capfix/capfix/timeadj"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultOptions mirrors the teacher's DefaultOptions convention: a
// zero-cost, all-stages-disabled configuration safe to run as-is (an
// identity Driver that copies Source straight to Sink).
var DefaultOptions = Options{
	Logger: &log.Logger,
}

// Options configures a Driver (§3 "all state is created from parsed
// configuration at startup"). Each stage field's zero value disables
// that stage; the CLI package is responsible for turning parsed flags
// into a populated Options.
type Options struct {
	Logger *zerolog.Logger // if nil, logging is disabled

	Source   capio.Source
	OpenSink capio.SinkOpener
	SinkBase capio.OpenParams // path/type/encap/snaplen template for OpenSink

	Verbose bool // emit a diagnostic line for every dropped record

	// 1. TimeWindow
	HaveTimeWindow      bool
	StartTime, StopTime pkt.TimeSpec

	// 2. Selection
	Selection       *ranges.Set
	InvertSelection bool

	// 3. SplitRoll
	Split *split.State

	// 4. StrictTimeAdj
	TimeAdj *timeadj.State

	// 5. TimeShift
	HaveTimeShift bool
	TimeShift     pkt.TimeSpec

	// 6. Snap
	HaveSnaplen bool
	Snaplen     int
	AdjustLen   bool // also used by Chop and VlanStrip

	// 7. Chop
	Chop chop.Spec

	// 8. VlanStrip
	VlanStrip       bool
	EncapIsEthernet func(pkt.EncapTag) bool

	// 9./10. Dedup
	DedupContent       *dedup.Cache
	DedupContentWindow int
	DedupTime          *dedup.Cache
	DedupTimeWindow    pkt.TimeSpec
	DedupIgnorePrefix  int                       // -I: bytes ignored at start of payload before hashing
	DedupRadiotapFunc  func(payload []byte) int // e.g. radiotap.HeaderLen, set only under --skip-radiotap-header

	// 11. Fuzz
	Fuzz      *fuzz.State
	ExtraSkip func(payload []byte) int // e.g. dct2000.HeaderLen

	// 12. Comment
	Comments CommentTable
}

func (o *Options) apply() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	l := zerolog.Nop()
	return &l
}
