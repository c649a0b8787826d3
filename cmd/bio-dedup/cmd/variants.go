package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/readdedup/barcode"
	"v.io/x/lib/cmdline"
)

type variantsFlags struct {
	output           string
	byExpected       bool
	summary          bool
	maxEdits         int
	maxSubstitutions int
	maxIndels        int
	alphabet         string
	maxSize          int
	parallelism      int
	cacheDir         string
}

func newCmdVariants() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "variants",
		Short: "Build the variant table of a set of expected barcodes",
		Long: `
variants reads expected barcodes, one per line, and writes every variant
within the edit budgets next to the expected barcode it resolves to. The
build fails if two expected barcodes share a variant.`,
		ArgsName: "expected-barcodes",
	}
	flags := variantsFlags{}
	cmd.Flags.StringVar(&flags.output, "output", "-", "Output path, or - for stdout")
	cmd.Flags.BoolVar(&flags.byExpected, "by-expected", false, "Write one line per expected barcode with its comma-separated variants")
	cmd.Flags.BoolVar(&flags.summary, "summary", false, "Print the minimum Hamming and Levenshtein distances within the expected set instead of the table")
	cmd.Flags.IntVar(&flags.maxEdits, "max-edits", 1, "Edit budget")
	cmd.Flags.IntVar(&flags.maxSubstitutions, "max-substitutions", -1, "Substitution budget; -1 means -max-edits")
	cmd.Flags.IntVar(&flags.maxIndels, "max-indels", -1, "Indel budget; -1 means -max-edits")
	cmd.Flags.StringVar(&flags.alphabet, "alphabet", barcode.DefaultAlphabet, "Bases that variants are drawn from")
	cmd.Flags.IntVar(&flags.maxSize, "max-size", 0, "Largest neighborhood allowed per expected barcode; 0 means the default, negative disables the check")
	cmd.Flags.IntVar(&flags.parallelism, "parallelism", 0, "Number of neighborhoods generated in parallel; 0 means the number of CPUs")
	cmd.Flags.StringVar(&flags.cacheDir, "variant-cache", "", "Directory that caches built variant maps")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("variants takes one pathname argument, but got %v", argv)
		}
		return variants(flags, argv[0])
	})
	return cmd
}

func variants(flags variantsFlags, path string) error {
	ctx := vcontext.Background()
	expected, err := barcode.ReadExpected(ctx, path)
	if err != nil {
		return err
	}
	if flags.summary {
		return withWriter(ctx, flags.output, func(w io.Writer) error {
			return writeSummary(w, expected)
		})
	}
	opts := barcode.Opts{
		MaxEdits:            flags.maxEdits,
		MaxSubstitutions:    flags.maxSubstitutions,
		MaxIndels:           flags.maxIndels,
		Alphabet:            flags.alphabet,
		MaxNeighborhoodSize: flags.maxSize,
		Parallelism:         flags.parallelism,
	}
	m, err := barcode.LoadOrBuild(ctx, flags.cacheDir, expected, opts)
	if err != nil {
		return err
	}
	return withWriter(ctx, flags.output, func(w io.Writer) error {
		return writeVariants(w, m, flags.byExpected)
	})
}

// writeVariants writes variant, expected lines sorted by variant, or with
// byExpected, expected, variants lines in input order.
func writeVariants(w io.Writer, m *barcode.VariantMap, byExpected bool) error {
	tw := tsv.NewWriter(w)
	if byExpected {
		for i, e := range m.Expected() {
			tw.WriteString(e)
			tw.WriteString(strings.Join(m.Neighborhood(i), ","))
			if err := tw.EndLine(); err != nil {
				return err
			}
		}
		return tw.Flush()
	}
	for _, e := range m.Entries() {
		tw.WriteString(e.Variant)
		tw.WriteString(e.Expected)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeSummary(w io.Writer, expected []string) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("expected")
	tw.WriteString(strconv.Itoa(len(expected)))
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, metric := range []struct {
		name string
		m    barcode.Metric
	}{
		{"min_hamming", barcode.HammingMetric},
		{"min_levenshtein", barcode.LevenshteinMetric},
	} {
		tw.WriteString(metric.name)
		if d, ok := barcode.MinGroupDistance(expected, metric.m); ok {
			tw.WriteString(strconv.Itoa(d))
		} else {
			tw.WriteString("undefined")
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
