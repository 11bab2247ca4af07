// Command capfix edits packet captures: time-window filtering, record
// selection, splitting, timestamp adjustment, chopping, VLAN
// stripping, deduplication, fuzzing, and commenting, applied in the
// fixed stage order documented on pipe.Driver.
package main

import (
	"context"
	"crypto/md5"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/capfix/capfix/capio"
	"github.com/capfix/capfix/chop"
	"github.com/capfix/capfix/config"
	"github.com/capfix/capfix/dct2000"
	"github.com/capfix/capfix/dedup"
	"github.com/capfix/capfix/fuzz"
	"github.com/capfix/capfix/pcapfile"
	"github.com/capfix/capfix/pipe"
	"github.com/capfix/capfix/pkt"
	"github.com/capfix/capfix/radiotap"
	"github.com/capfix/capfix/ranges"
	"github.com/capfix/capfix/split"
	"github.com/capfix/capfix/timeadj"
	"github.com/capfix/capfix/tspec"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

// defaultDupDepth is editcap's DEFAULT_DUP_DEPTH: the count-mode window
// -d alone selects, without an explicit -D.
const defaultDupDepth = 5

// stringSlice collects a repeatable flag into an ordered list, for -C,
// -a, and future multi-value flags (flag's own Value interface doesn't
// have a built-in repeatable string type).
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	optInvert    = flag.Bool("r", false, "invert selection")
	optStart     = flag.String("A", "", "start time \"YYYY-MM-DD HH:MM:SS\"")
	optStop      = flag.String("B", "", "stop time \"YYYY-MM-DD HH:MM:SS\"")
	optSplitCnt  = flag.Int("c", 0, "split output every k records")
	optSplitIval = flag.String("i", "", "split output every Δ seconds")
	optAdjLen    = flag.Bool("L", false, "adjust reported length along with captured length")
	optSnaplen   = flag.Int("s", 0, "truncate captured length to snaplen")
	optShift     = flag.String("t", "", "shift all timestamps by signed-seconds")
	optStrict    = flag.String("S", "", "strict timestamp adjustment delta")
	optFuzzProb  = flag.Float64("E", 0, "fuzz probability in [0,1]")
	optChangeOff = flag.Int("o", 0, "fuzz: first byte offset eligible for change")
	optIgnore    = flag.Int("I", 0, "dedup: bytes ignored at start of payload")
	optDedup     = flag.Bool("d", false, "drop duplicate records (count mode)")
	optDedupWin  = flag.Int("D", 0, "dedup: count-mode window size")
	optDedupTime = flag.String("w", "", "dedup: time-mode window, signed-seconds")
	optType      = flag.String("F", "", "output file type (empty lists supported values)")
	optEncap     = flag.String("T", "", "output link-layer encap (empty lists supported values)")
	optVerbose   = flag.Bool("v", false, "verbose diagnostics")
	optVersion   = flag.Bool("V", false, "print version and exit")
	optNoVlan    = flag.Bool("novlan", false, "disable VLAN tag stripping")
	optSkipRadio = flag.Bool("skip-radiotap-header", false, "dedup: also skip the radiotap header")
	optSeed      = flag.Uint64("seed", 0, "fuzz PRNG seed (0: derive from time and pid)")
	optProfile   = flag.String("profile", "", "load a JSON batch-profile file (explicit flags still override it)")
)

var optChops stringSlice
var optComments stringSlice

func init() {
	flag.Var(&optChops, "C", "chop [off:]len, repeatable (max two: one positive, one negative)")
	flag.Var(&optComments, "a", "N:comment, repeatable")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *optVersion {
		fmt.Println("capfix", version)
		os.Exit(0)
	}

	logger := newLogger(*optVerbose)

	registry := pcapfile.Registry()
	if *optType == "" && flagWasSetEmpty("F") {
		printTypes(registry)
		os.Exit(0)
	}
	if *optEncap == "" && flagWasSetEmpty("T") {
		printEncaps(registry)
		os.Exit(0)
	}

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}

	opts, skipRadio, err := buildOptions(flag.Arg(0), flag.Arg(1), flag.Args()[2:], registry, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("configuration error")
		os.Exit(1)
	}

	src, err := pcapfile.Open(flag.Arg(0), true)
	if err != nil {
		logger.Error().Err(err).Msg("open input")
		os.Exit(2)
	}
	opts.Source = src
	if opts.Fuzz != nil && pcapfile.IsDCT2000(src.FileEncap()) {
		opts.ExtraSkip = dct2000.HeaderLen
	}
	if skipRadio && pcapfile.IsRadiotap(src.FileEncap()) {
		opts.DedupRadiotapFunc = radiotap.HeaderLen
	}

	d := pipe.NewDriver()
	d.Options = *opts

	if err := d.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("pipeline")
		src.Close()
		os.Exit(2)
	}
	src.Close()

	fmt.Fprintf(os.Stderr, "%d record%s seen, %d duplicate%s skipped\n",
		d.Stats.Read, pluralSuffix(d.Stats.Read), d.Stats.DroppedDedup, pluralSuffix(d.Stats.DroppedDedup))
}

func pluralSuffix(n uint64) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if !verbose {
		level = zerolog.WarnLevel
	}

	var out = os.Stderr
	var writer zerolog.ConsoleWriter
	if isatty.IsTerminal(out.Fd()) {
		writer = zerolog.ConsoleWriter{Out: colorable.NewColorable(out), TimeFormat: time.RFC3339}
	} else {
		writer = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: capfix [options] <infile> <outfile> [ranges...]\n\n")
	flag.PrintDefaults()
}

func printTypes(r *capio.Registry) {
	for _, t := range r.ListTypes() {
		fmt.Println(t.Name)
	}
}

func printEncaps(r *capio.Registry) {
	for _, e := range r.ListEncaps() {
		fmt.Println(e.Name)
	}
}

// flagWasSetEmpty reports whether name was passed on the command line
// with an empty value, the §6 convention for "list supported values".
func flagWasSetEmpty(name string) bool {
	seen := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name && f.Value.String() == "" {
			seen = true
		}
	})
	return seen
}

// isFlagSet reports whether name was explicitly passed on the command
// line, so an explicit flag can take precedence over a --profile value
// for the same setting.
func isFlagSet(name string) bool {
	seen := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			seen = true
		}
	})
	return seen
}

func buildOptions(inPath, outPath string, ranges_ []string, registry *capio.Registry, logger *zerolog.Logger) (*pipe.Options, bool, error) {
	var prof *config.Profile
	if *optProfile != "" {
		p, err := config.Load(*optProfile)
		if err != nil {
			return nil, false, fmt.Errorf("-profile: %w", err)
		}
		prof = p
	}
	haveProfile := prof != nil

	o := pipe.DefaultOptions
	o.Logger = logger
	o.Verbose = *optVerbose

	invert := *optInvert
	if !isFlagSet("r") && haveProfile {
		invert = prof.Invert
	}
	o.InvertSelection = invert

	adjustLen := *optAdjLen
	if !isFlagSet("L") && haveProfile {
		adjustLen = prof.AdjustLen
	}
	o.AdjustLen = adjustLen

	if *optStart != "" || *optStop != "" {
		start := pkt.TimeSpec{Secs: 0}
		stop := pkt.TimeSpec{Secs: math.MaxInt64}
		if *optStart != "" {
			t, err := tspec.ParseCalendar(*optStart)
			if err != nil {
				return nil, false, fmt.Errorf("-A: %w", err)
			}
			start = t
		}
		if *optStop != "" {
			t, err := tspec.ParseCalendar(*optStop)
			if err != nil {
				return nil, false, fmt.Errorf("-B: %w", err)
			}
			stop = t
		}
		o.HaveTimeWindow = true
		o.StartTime, o.StopTime = start, stop
	}

	if len(ranges_) > 0 {
		set, err := parseSelection(ranges_)
		if err != nil {
			return nil, false, err
		}
		o.Selection = set
	}

	splitCnt := *optSplitCnt
	splitIval := *optSplitIval
	if !isFlagSet("c") && !isFlagSet("i") && haveProfile {
		switch {
		case prof.SplitCount > 0:
			splitCnt = prof.SplitCount
		case prof.SplitInterval > 0:
			splitIval = strconv.FormatFloat(prof.SplitInterval, 'f', -1, 64)
		}
	}
	if splitCnt > 0 && splitIval != "" {
		return nil, false, split.ErrBothTriggers
	}
	if splitCnt > 0 {
		s, err := split.New(outPath, split.ByCount, splitCnt, pkt.TimeSpec{})
		if err != nil {
			return nil, false, err
		}
		o.Split = s
	} else if splitIval != "" {
		iv, err := tspec.Parse(splitIval)
		if err != nil {
			return nil, false, fmt.Errorf("-i: %w", err)
		}
		s, err := split.New(outPath, split.ByInterval, 0, iv)
		if err != nil {
			return nil, false, err
		}
		o.Split = s
	}

	strictStr := *optStrict
	if !isFlagSet("S") && haveProfile && prof.Strict != 0 {
		strictStr = strconv.FormatFloat(prof.Strict, 'f', -1, 64)
	}
	if strictStr != "" {
		adj, err := tspec.Parse(strictStr)
		if err != nil {
			return nil, false, fmt.Errorf("-S: %w", err)
		}
		o.TimeAdj = timeadj.New(adj)
	}

	shiftStr := *optShift
	if !isFlagSet("t") && haveProfile && prof.TimeShift != 0 {
		shiftStr = strconv.FormatFloat(prof.TimeShift, 'f', -1, 64)
	}
	if shiftStr != "" {
		shift, err := tspec.Parse(shiftStr)
		if err != nil {
			return nil, false, fmt.Errorf("-t: %w", err)
		}
		o.HaveTimeShift = true
		o.TimeShift = shift
	}

	snaplen := *optSnaplen
	if !isFlagSet("s") && haveProfile && prof.Snaplen > 0 {
		snaplen = prof.Snaplen
	}
	if snaplen > 0 {
		o.HaveSnaplen = true
		o.Snaplen = snaplen
	}

	chops := []string(optChops)
	if !isFlagSet("C") && haveProfile && len(prof.ChopSpecs) > 0 {
		chops = prof.ChopSpecs
	}
	if len(chops) > 0 {
		spec, err := parseChops(chops)
		if err != nil {
			return nil, false, err
		}
		o.Chop = spec
	}

	noVlan := *optNoVlan
	if !isFlagSet("novlan") && haveProfile {
		noVlan = prof.NoVlan
	}
	if !noVlan {
		o.VlanStrip = true
		o.EncapIsEthernet = func(e pkt.EncapTag) bool {
			return pcapfile.IsEthernet(capio.EncapTag(e))
		}
	}

	dedupOn := *optDedup
	dedupWin := *optDedupWin
	if !isFlagSet("d") && !isFlagSet("D") && haveProfile && prof.DedupWindow > 0 {
		dedupOn = true
		dedupWin = prof.DedupWindow
	}
	if dedupOn || dedupWin > 0 {
		window := dedupWin
		if dedupOn && window == 0 {
			window = defaultDupDepth
		}
		o.DedupContent = dedup.NewCache(md5Digest)
		o.DedupContentWindow = window
	}

	dedupTimeStr := *optDedupTime
	if !isFlagSet("w") && haveProfile && prof.DedupTimeWindow != 0 {
		dedupTimeStr = strconv.FormatFloat(prof.DedupTimeWindow, 'f', -1, 64)
	}
	if dedupTimeStr != "" {
		w, err := tspec.Parse(dedupTimeStr)
		if err != nil {
			return nil, false, fmt.Errorf("-w: %w", err)
		}
		o.DedupTime = dedup.NewCache(md5Digest)
		o.DedupTimeWindow = w
	}

	ignorePrefix := *optIgnore
	if !isFlagSet("I") && haveProfile && prof.SkipBytes > 0 {
		ignorePrefix = prof.SkipBytes
	}
	o.DedupIgnorePrefix = ignorePrefix

	skipRadio := *optSkipRadio
	if !isFlagSet("skip-radiotap-header") && haveProfile {
		skipRadio = prof.SkipRadiotapHeader
	}

	fuzzProb := *optFuzzProb
	if !isFlagSet("E") && haveProfile && prof.FuzzProbability > 0 {
		fuzzProb = prof.FuzzProbability
	}
	if fuzzProb > 0 {
		changeOff := *optChangeOff
		if !isFlagSet("o") && haveProfile && prof.ChangeOffset != 0 {
			changeOff = prof.ChangeOffset
		}
		seed := *optSeed
		if !isFlagSet("seed") && haveProfile && prof.Seed != 0 {
			seed = prof.Seed
		}
		if seed == 0 {
			seed = fuzz.Seed(time.Now().UnixNano(), os.Getpid())
		}
		o.Fuzz = fuzz.New(fuzzProb, changeOff, seed)
	}

	if len(optComments) > 0 {
		table, err := parseComments(optComments)
		if err != nil {
			return nil, false, err
		}
		o.Comments = table
	}

	encapTag := capio.EncapTag(pcapfile.LinktypeEthernet)
	if *optEncap != "" {
		tag, ok := registry.EncapByName(*optEncap)
		if !ok {
			return nil, false, fmt.Errorf("-T: unknown encap %q", *optEncap)
		}
		encapTag = tag
	}
	o.SinkBase = capio.OpenParams{
		Path:    outPath,
		Type:    pcapfile.TypeClassic,
		Encap:   encapTag,
		Snaplen: 65535,
	}
	o.OpenSink = func(p capio.OpenParams) (capio.Sink, error) {
		return pcapfile.Create(p)
	}

	return &o, skipRadio, nil
}

func parseSelection(args []string) (*ranges.Set, error) {
	set := ranges.NewSet()
	for _, a := range args {
		if idx := strings.IndexByte(a, '-'); idx > 0 {
			lo, err := strconv.ParseUint(a[:idx], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("range %q: %w", a, err)
			}
			hiStr := a[idx+1:]
			hi, err := strconv.ParseUint(hiStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("range %q: %w", a, err)
			}
			set.AddRange(lo, hi) // hi == 0 means unbounded, per §6/§9 "5-0" spelling
		} else {
			n, err := strconv.ParseUint(a, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", a, err)
			}
			set.AddSingle(n)
		}
	}
	if set.Overflowed() {
		return nil, fmt.Errorf("selection: too many ranges (max %d)", ranges.MaxItems)
	}
	return set, nil
}

// parseChops turns up to two "-C [off:]len" flags into a chop.Spec,
// per §4.2: each flag is one signed len with an optional signed offset
// before the colon; positive len chops from the start, negative len
// chops from the end.
func parseChops(flags []string) (chop.Spec, error) {
	var spec chop.Spec
	for _, f := range flags {
		var offStr, lenStr string
		if idx := strings.IndexByte(f, ':'); idx >= 0 {
			offStr, lenStr = f[:idx], f[idx+1:]
		} else {
			lenStr = f
		}

		length, err := strconv.Atoi(lenStr)
		if err != nil {
			return spec, fmt.Errorf("-C %q: %w", f, err)
		}
		var off int
		if offStr != "" {
			off, err = strconv.Atoi(offStr)
			if err != nil {
				return spec, fmt.Errorf("-C %q: %w", f, err)
			}
		}

		if length >= 0 {
			spec.LenBegin = length
			if off >= 0 {
				spec.OffBeginPos = off
			} else {
				spec.OffBeginNeg = off
			}
		} else {
			spec.LenEnd = length
			if off >= 0 {
				spec.OffEndPos = off
			} else {
				spec.OffEndNeg = off
			}
		}
	}
	return spec, nil
}

func parseComments(flags []string) (pipe.CommentTable, error) {
	table := make(pipe.CommentTable, len(flags))
	for _, f := range flags {
		idx := strings.IndexByte(f, ':')
		if idx < 0 {
			return nil, fmt.Errorf("-a %q: expected N:comment", f)
		}
		n, err := strconv.ParseUint(f[:idx], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("-a %q: %w", f, err)
		}
		table[n] = f[idx+1:]
	}
	return table, nil
}

// md5Digest is the concrete HashFunc §1 leaves as an external
// collaborator ("cryptographic hash primitive (MD5) — assumed
// available as a pure function hash(bytes) -> 16-byte digest").
func md5Digest(b []byte) dedup.Digest {
	return dedup.Digest(md5.Sum(b))
}
