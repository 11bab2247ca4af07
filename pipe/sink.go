package pipe

import (
	"context"
	"fmt"

	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/pkt"
)

// maybeRoll implements the §4.6 SplitRoll stage: close the current
// sink and open the next one when a count or interval boundary is
// crossed, before the triggering record is written.
func (d *Driver) maybeRoll(ctx context.Context, rec pkt.Record) error {
	s := d.Options.Split

	if !d.haveSink {
		if err := d.openSink(ctx, rec.Time, rec.HasTimestamp); err != nil {
			return err
		}
		if rec.HasTimestamp {
			s.SetIntervalStart(rec.Time)
		}
		return nil
	}

	roll := s.ShouldRollCount()
	if rec.HasTimestamp {
		if s.ShouldRollInterval(rec.Time) {
			roll = true
		}
	}
	if !roll {
		return nil
	}

	if err := d.closeSink(); err != nil {
		return err
	}
	s.Roll()
	if err := d.openSink(ctx, rec.Time, rec.HasTimestamp); err != nil {
		return err
	}
	if rec.HasTimestamp {
		s.AdvanceInterval(rec.Time)
	}
	return nil
}

// openSink opens the next output file, computing its name from
// Options.Split when splitting is active, or reusing SinkBase.Path
// unmodified otherwise.
func (d *Driver) openSink(ctx context.Context, ts pkt.TimeSpec, haveTS bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := d.Options.SinkBase
	if s := d.Options.Split; s != nil {
		params.Path = s.Filename(ts, haveTS)
	}

	sink, err := d.Options.OpenSink(params)
	if err != nil {
		return fmt.Errorf("%w: %v", capio.ErrOutputOpen, err)
	}
	d.sink = sink
	d.haveSink = true
	d.openedAny = true
	return nil
}

func (d *Driver) closeSink() error {
	if !d.haveSink {
		return nil
	}
	err := d.sink.Close()
	d.sink = nil
	d.haveSink = false
	if err != nil {
		return fmt.Errorf("%w: %v", capio.ErrClose, err)
	}
	return nil
}

// emit implements the §2 Emit stage: opens a sink on first use (even
// when SplitRoll is disabled) and writes the record through it.
func (d *Driver) emit(ctx context.Context, rec pkt.Record) error {
	if !d.haveSink {
		if err := d.openSink(ctx, rec.Time, rec.HasTimestamp); err != nil {
			return err
		}
	}

	if err := d.sink.Write(ctx, rec, rec.Payload); err != nil {
		return fmt.Errorf("%w: %v", capio.ErrWrite, err)
	}
	d.Stats.Written++

	if s := d.Options.Split; s != nil {
		s.RecordWritten()
	}
	return nil
}
