// Package pipe drives the §2 single-threaded pull pipeline: it reads
// records one at a time from a capio.Source, threads each through the
// fixed-order 12-stage chain, and emits survivors to a capio.Sink,
// rolling the sink over on a split boundary.
package pipe

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/chop"
	"github.com/capfix/capfix/pkt"
	"github.com/capfix/capfix/ranges"
	"github.com/capfix/capfix/vlan"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// Stats accumulates the run-level counters the CLI prints at shutdown
// (§7 "print a summary line of records seen and records skipped").
type Stats struct {
	Read    uint64
	Written uint64

	DroppedTimeWindow uint64
	DroppedSelection  uint64
	DroppedDedup      uint64

	FuzzedRecords uint64
	FuzzedBytes   uint64
}

// Driver is the §4.1 pipeline driver. Construct with NewDriver, set
// Options, then call Run.
type Driver struct {
	*zerolog.Logger

	Options Options
	Stats   Stats

	// KV is a generic thread-safe store for extension use. Nothing in
	// this module reads or writes it; every other Driver field is
	// accessed only from Run's own goroutine.
	KV *xsync.MapOf[string, any]

	sink      capio.Sink
	haveSink  bool
	openedAny bool // did we ever manage to open a sink for a real record?
}

// NewDriver returns a Driver ready to have its Options populated.
func NewDriver() *Driver {
	d := &Driver{Options: DefaultOptions}
	d.KV = xsync.NewMapOf[string, any]()
	return d
}

// Run pulls records from Options.Source until EOF, running each
// through the 12-stage chain, until the source is exhausted or ctx is
// canceled. On return, any open sink has been closed. Per §7's
// fallback, if Run never opened a sink (every record was dropped, or
// there were no records at all), it opens one now with an empty
// header so a well-formed empty file is still produced.
func (d *Driver) Run(ctx context.Context) error {
	d.Logger = d.Options.apply()

	if d.Options.Source == nil {
		return ErrNoSource
	}
	if d.Options.OpenSink == nil {
		return ErrNoOpener
	}

	for {
		rec, _, err := d.Options.Source.Pull(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			d.closeSink()
			return fmt.Errorf("%w: %v", capio.ErrRead, err)
		}
		d.Stats.Read++
		rec.Index = d.Stats.Read

		if err := d.process(ctx, rec); err != nil {
			d.closeSink()
			return err
		}
	}

	if !d.openedAny {
		if err := d.openSink(ctx, pkt.TimeSpec{}, false); err != nil {
			return err
		}
	}
	return d.closeSink()
}

// process threads one record through the fixed-order chain (§2),
// stopping and logging (verbose-only) the moment a stage drops it.
func (d *Driver) process(ctx context.Context, rec pkt.Record) error {
	o := &d.Options

	// 1. TimeWindow
	if o.HaveTimeWindow && rec.HasTimestamp {
		if rec.Time.Compare(o.StartTime) < 0 || rec.Time.Compare(o.StopTime) >= 0 {
			d.Stats.DroppedTimeWindow++
			d.verbose(rec.Index, "dropped: outside time window")
			return nil
		}
	}

	// 2. Selection
	if o.Selection != nil {
		// editcap's default (-r unset) is delete-selected; -r switches
		// to keep-only-selected, so InvertSelection maps straight to
		// ranges.Keep's keepMode.
		if !ranges.Keep(o.Selection, rec.Index, o.InvertSelection) {
			d.Stats.DroppedSelection++
			d.verbose(rec.Index, "dropped: selection")
			return nil
		}
	}

	// 3. SplitRoll
	if o.Split != nil {
		if err := d.maybeRoll(ctx, rec); err != nil {
			return err
		}
	}

	// 4. StrictTimeAdj
	if o.TimeAdj != nil && rec.HasTimestamp {
		rec.Time = o.TimeAdj.Apply(rec.Time)
	}

	// 5. TimeShift
	if o.HaveTimeShift && rec.HasTimestamp {
		rec.Time = rec.Time.Add(o.TimeShift)
	}

	// 6. Snap
	if o.HaveSnaplen && rec.Caplen > o.Snaplen {
		cut := rec.Caplen - o.Snaplen
		rec.Payload = rec.Payload[:o.Snaplen]
		rec.Caplen = o.Snaplen
		if o.AdjustLen {
			rec.Len -= cut
			if rec.Len < 0 {
				rec.Len = 0
			}
		}
	}

	// 7. Chop
	if !o.Chop.IsZero() {
		spec := o.Chop
		spec.AdjLen = o.AdjustLen
		newCaplen, newLen, newPayload := chop.Apply(spec, rec.Caplen, rec.Len, rec.Payload)
		rec.Caplen, rec.Len, rec.Payload = newCaplen, newLen, newPayload
	}

	// 8. VlanStrip
	if o.VlanStrip && o.EncapIsEthernet != nil && o.EncapIsEthernet(rec.Encap) {
		newPayload, newCaplen, stripped := vlan.Strip(rec.Payload, rec.Caplen, true)
		if stripped {
			rec.Payload, rec.Caplen = newPayload, newCaplen
			rec.Len = vlan.AdjustLen(rec.Len, o.AdjustLen)
		}
	}

	// 9. DedupContent
	if o.DedupContent != nil {
		radiotapLen := 0
		if o.DedupRadiotapFunc != nil {
			radiotapLen = o.DedupRadiotapFunc(rec.Payload)
		}
		o.DedupContent.Insert(rec.Payload, rec.Caplen, rec.Time, rec.HasTimestamp, o.DedupIgnorePrefix, radiotapLen)
		if o.DedupContent.LookupCount(o.DedupContentWindow) {
			d.Stats.DroppedDedup++
			d.verbose(rec.Index, "dropped: content duplicate")
			return nil
		}
	}

	// 10. DedupTime
	if o.DedupTime != nil {
		radiotapLen := 0
		if o.DedupRadiotapFunc != nil {
			radiotapLen = o.DedupRadiotapFunc(rec.Payload)
		}
		o.DedupTime.Insert(rec.Payload, rec.Caplen, rec.Time, rec.HasTimestamp, o.DedupIgnorePrefix, radiotapLen)
		if o.DedupTime.LookupTime(o.DedupTimeWindow) {
			d.Stats.DroppedDedup++
			d.verbose(rec.Index, "dropped: time-window duplicate")
			return nil
		}
	}

	// 11. Fuzz
	if o.Fuzz != nil {
		extra := 0
		if o.ExtraSkip != nil {
			extra = o.ExtraSkip(rec.Payload)
		}
		touched := o.Fuzz.Apply(rec.Payload, extra)
		if touched > 0 {
			d.Stats.FuzzedRecords++
			d.Stats.FuzzedBytes += uint64(touched)
		}
	}

	// 12. Comment
	if o.Comments != nil {
		if c, ok := o.Comments.Take(rec.Index); ok {
			rec.Comment = c
			rec.CommentChanged = true
		}
	}

	// 13. Emit
	return d.emit(ctx, rec)
}

func (d *Driver) verbose(index uint64, msg string) {
	if d.Options.Verbose {
		d.Info().Uint64("index", index).Msg(msg)
	}
}
