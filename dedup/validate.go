package dedup

import (
	"fmt"

	"github.com/grailbio/readdedup/encoding/bamprovider"
)

func validate(opts *Opts) error {
	if opts.InputPath == "" {
		return fmt.Errorf("you must specify an input bam file, or - for stdin")
	}
	if opts.Parallelism < 0 {
		return fmt.Errorf("threads must be non-negative")
	}
	if bamprovider.ParseFileType(opts.Format) == bamprovider.Unknown && opts.Format != "" {
		return fmt.Errorf("unknown output format %s", opts.Format)
	}
	if opts.RemoveUnpaired && !opts.Paired {
		return fmt.Errorf("remove-unpaired is set, but paired is false")
	}
	if opts.ExpectedBarcodesPath != "" && opts.BarcodeRegexp == "" {
		return fmt.Errorf("expected-barcodes is set, but barcode-regexp is empty")
	}
	if opts.ExpectedBarcodesPath == "" && opts.SnapDistance >= 0 {
		return fmt.Errorf("snap-distance is set, but expected-barcodes is empty")
	}
	if opts.VariantCacheDir != "" && opts.ExpectedBarcodesPath == "" {
		return fmt.Errorf("variant-cache is set, but expected-barcodes is empty")
	}
	if opts.MaxEdits < 0 {
		return fmt.Errorf("max-edits must be non-negative")
	}
	return nil
}
