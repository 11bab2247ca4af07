// Package config loads an optional JSON "batch profile" file: a saved
// set of CLI flag values so a recurring capfix invocation doesn't need
// to be retyped. Profiles are read with jsonparser the same way the
// teacher's json package walks untyped JSON (§1's CLI surface is the
// only in-scope consumer of this package; the wire format itself is
// out of spec.md's scope, so this is purely an ambient convenience).
package config

import (
	"fmt"
	"os"

	jsp "github.com/buger/jsonparser"
	"github.com/spf13/cast"
)

// Profile mirrors the subset of §6's CLI flags that are worth saving
// across runs: selection, chop, split, dedup, and fuzz settings.
// Zero values mean "flag not present in the profile" and the CLI's own
// flag.Parse defaults apply.
type Profile struct {
	Invert bool

	SplitCount    int
	SplitInterval float64 // seconds

	ChopSpecs []string // raw "-C [off:]len" strings, parsed by chop normalization

	AdjustLen bool
	Snaplen   int
	TimeShift float64
	Strict    float64

	DedupWindow     int
	DedupTimeWindow float64

	FuzzProbability float64
	ChangeOffset    int
	SkipBytes       int
	Seed            uint64

	NoVlan             bool
	SkipRadiotapHeader bool
}

// Load reads and decodes a JSON profile file at path. Unknown keys are
// ignored; missing keys leave the corresponding Profile field at its
// zero value.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	p := &Profile{}

	if v, err := jsp.GetBoolean(data, "invert"); err == nil {
		p.Invert = v
	}
	if v, _, _, err := jsp.Get(data, "split_count"); err == nil {
		p.SplitCount = cast.ToInt(string(v))
	}
	if v, _, _, err := jsp.Get(data, "split_interval"); err == nil {
		p.SplitInterval = cast.ToFloat64(string(v))
	}
	if _, err := jsp.ArrayEach(data, func(val []byte, _ jsp.ValueType, _ int, _ error) {
		p.ChopSpecs = append(p.ChopSpecs, cast.ToString(string(val)))
	}, "chop"); err != nil && err != jsp.KeyPathNotFoundError {
		return nil, fmt.Errorf("config: chop: %w", err)
	}

	if v, _, _, err := jsp.Get(data, "adjust_len"); err == nil {
		p.AdjustLen = cast.ToBool(string(v))
	}
	if v, _, _, err := jsp.Get(data, "snaplen"); err == nil {
		p.Snaplen = cast.ToInt(string(v))
	}
	if v, _, _, err := jsp.Get(data, "time_shift"); err == nil {
		p.TimeShift = cast.ToFloat64(string(v))
	}
	if v, _, _, err := jsp.Get(data, "strict"); err == nil {
		p.Strict = cast.ToFloat64(string(v))
	}
	if v, _, _, err := jsp.Get(data, "dedup_window"); err == nil {
		p.DedupWindow = cast.ToInt(string(v))
	}
	if v, _, _, err := jsp.Get(data, "dedup_time_window"); err == nil {
		p.DedupTimeWindow = cast.ToFloat64(string(v))
	}
	if v, _, _, err := jsp.Get(data, "fuzz_probability"); err == nil {
		p.FuzzProbability = cast.ToFloat64(string(v))
	}
	if v, _, _, err := jsp.Get(data, "change_offset"); err == nil {
		p.ChangeOffset = cast.ToInt(string(v))
	}
	if v, _, _, err := jsp.Get(data, "skip_bytes"); err == nil {
		p.SkipBytes = cast.ToInt(string(v))
	}
	if v, _, _, err := jsp.Get(data, "seed"); err == nil {
		p.Seed = cast.ToUint64(string(v))
	}
	if v, err := jsp.GetBoolean(data, "novlan"); err == nil {
		p.NoVlan = v
	}
	if v, err := jsp.GetBoolean(data, "skip_radiotap_header"); err == nil {
		p.SkipRadiotapHeader = v
	}

	return p, nil
}
