package cmd

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/readdedup/barcode"
	"v.io/x/lib/cmdline"
)

func newCmdParseBarcodes() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "parse-barcodes",
		Short: "Extract named barcode fields from read names",
		Long: `
parse-barcodes splits every line of the input on -split, matches the last
field against -regexp, and writes the named groups of each match as a
tab-separated table with a header line. Gzipped inputs are detected by
their extension.`,
		ArgsName: "path",
	}
	pattern := cmd.Flags.String("regexp", "", "Regular expression with named groups, e.g. (?P<umi>[ACGT]+)")
	split := cmd.Flags.String("split", barcode.DefaultParseOpts.Split, "Field separator; the last field is matched. Empty matches the whole line")
	maxUnmatched := cmd.Flags.Int("max-unmatched", barcode.DefaultParseOpts.MaxUnmatched, "Number of unmatched lines to log")
	output := cmd.Flags.String("output", "-", "Output path, or - for stdout")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("parse-barcodes takes one pathname argument, but got %v", argv)
		}
		re, err := regexp.Compile(*pattern)
		if err != nil {
			return fmt.Errorf("bad regexp %s: %v", *pattern, err)
		}
		opts := barcode.ParseOpts{Split: *split, MaxUnmatched: *maxUnmatched}
		return parseBarcodes(vcontext.Background(), argv[0], *output, re, opts)
	})
	return cmd
}

func parseBarcodes(ctx context.Context, path, output string, re *regexp.Regexp, opts barcode.ParseOpts) error {
	var res *barcode.ParseResult
	err := barcode.WithReader(ctx, path, func(r io.Reader) (err error) {
		res, err = barcode.ParseBarcodes(r, re, opts)
		return err
	})
	if err != nil {
		return err
	}
	if res.NumUnmatched > 0 {
		log.Printf("%s: %d lines did not match %s", path, res.NumUnmatched, re.String())
		for _, line := range res.Unmatched {
			log.Debug.Printf("unmatched: %s", line)
		}
	}
	return withWriter(ctx, output, func(w io.Writer) error {
		return writeParseResult(w, res)
	})
}

func writeParseResult(w io.Writer, res *barcode.ParseResult) error {
	tw := tsv.NewWriter(w)
	for _, c := range res.Columns {
		tw.WriteString(c)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, rec := range res.Records {
		for _, v := range rec {
			tw.WriteString(v)
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
