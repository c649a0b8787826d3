package dedup

import (
	"context"
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/readdedup/barcode"
	"github.com/grailbio/readdedup/encoding/bamprovider"
)

// Opts holds the options of a deduplication run.
type Opts struct {
	// Commandline options.
	InputPath   string
	OutputPath  string
	CountsPath  string
	MetricsPath string
	Format      string
	Parallelism int
	Paired      bool

	// RemoveUnpaired drops reads without an adjacent mate before paired
	// deduplication.
	RemoveUnpaired bool

	// BarcodeRegexp extracts the barcode from the read name; it must have
	// exactly one capture group. Empty means reads carry no barcode.
	BarcodeRegexp string

	// ExpectedBarcodesPath lists the expected barcodes. When set, raw
	// barcodes are resolved through a VariantMap built with the budgets
	// below, or by snapping when SnapDistance >= 0.
	ExpectedBarcodesPath string
	MaxEdits             int
	MaxSubstitutions     int
	MaxIndels            int
	SnapDistance         int
	VariantCacheDir      string

	// RawBarcodes keeps barcodes as captured instead of requiring integers.
	// Ignored when ExpectedBarcodesPath is set.
	RawBarcodes bool
}

// DefaultOpts are the default options.
var DefaultOpts = Opts{
	InputPath:        "-",
	Parallelism:      1,
	MaxEdits:         1,
	MaxSubstitutions: -1,
	MaxIndels:        -1,
	SnapDistance:     -1,
}

// newResolver builds the barcode resolver selected by opts.
func newResolver(ctx context.Context, opts *Opts) (barcode.Resolver, error) {
	if opts.ExpectedBarcodesPath == "" {
		if opts.RawBarcodes {
			return barcode.IdentityResolver{}, nil
		}
		return barcode.IntegerResolver{}, nil
	}
	expected, err := barcode.ReadExpected(ctx, opts.ExpectedBarcodesPath)
	if err != nil {
		return nil, err
	}
	if opts.SnapDistance >= 0 {
		return barcode.NewSnapResolver(expected, opts.SnapDistance)
	}
	bopts := barcode.DefaultOpts
	bopts.MaxEdits = opts.MaxEdits
	bopts.MaxSubstitutions = opts.MaxSubstitutions
	bopts.MaxIndels = opts.MaxIndels
	m, err := barcode.LoadOrBuild(ctx, opts.VariantCacheDir, expected, bopts)
	if err != nil {
		return nil, err
	}
	log.Printf("resolving barcodes against %d expected barcodes (%d variants)", len(expected), m.Len())
	return m, nil
}

// SetupAndRun deduplicates opts.InputPath into opts.OutputPath and writes
// the count report and metrics when their paths are set.  It returns the
// sorted count report.
func SetupAndRun(ctx context.Context, opts *Opts) (rows []ReportRow, err error) {
	if err = validate(opts); err != nil {
		return nil, err
	}
	var extractor *Extractor
	if opts.BarcodeRegexp != "" {
		resolver, err := newResolver(ctx, opts)
		if err != nil {
			return nil, err
		}
		if extractor, err = NewExtractor(opts.BarcodeRegexp, resolver); err != nil {
			return nil, err
		}
	}

	in, err := bamprovider.NewStreamIterator(ctx, opts.InputPath, opts.Parallelism)
	if err != nil {
		return nil, err
	}
	header := in.Header()
	var iter bamprovider.Iterator = in
	if opts.RemoveUnpaired {
		iter = NewPairFilter(in)
	}
	defer func() {
		if e := iter.Close(); e != nil && err == nil {
			err = e
		}
	}()
	out, err := bamprovider.NewWriter(ctx, opts.OutputPath, header, bamprovider.ParseFileType(opts.Format), opts.Parallelism)
	if err != nil {
		return nil, err
	}

	d := New(opts.Paired, extractor)
	err = d.Process(ctx, iter, out)
	if e := out.Close(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		log.Error.Printf("deduplication of %s failed: %v", opts.InputPath, err)
		return nil, err
	}

	metrics := d.Metrics()
	log.Printf("%s: %d reads, %d units, %d kept, %d duplicates (%.2f%%)", opts.InputPath,
		metrics.ReadsExamined, metrics.UnitsExamined, metrics.UnitsEmitted, metrics.DuplicateUnits,
		metrics.PercentDuplication())
	rows = d.Counts().Report(header)
	if opts.CountsPath != "" {
		if err = WriteReport(ctx, opts.CountsPath, rows, opts.Parallelism); err != nil {
			return nil, err
		}
	}
	if opts.MetricsPath != "" {
		if err = writeMetrics(ctx, opts.MetricsPath, opts.Paired, &metrics); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// SetupAndRemoveUnpaired copies the paired reads of inPath to outPath.
func SetupAndRemoveUnpaired(ctx context.Context, inPath, outPath, format string, parallelism int) (stats UnpairedStats, err error) {
	if inPath == "" {
		return stats, fmt.Errorf("you must specify an input bam file, or - for stdin")
	}
	in, err := bamprovider.NewStreamIterator(ctx, inPath, parallelism)
	if err != nil {
		return stats, err
	}
	defer func() {
		if e := in.Close(); e != nil && err == nil {
			err = e
		}
	}()
	out, err := bamprovider.NewWriter(ctx, outPath, in.Header(), bamprovider.ParseFileType(format), parallelism)
	if err != nil {
		return stats, err
	}
	stats, err = RemoveUnpaired(ctx, in, out)
	if e := out.Close(); e != nil && err == nil {
		err = e
	}
	if err == nil {
		log.Printf("%s: kept %d paired reads, dropped %d unpaired reads", inPath, stats.Kept, stats.Dropped)
	}
	return stats, err
}
