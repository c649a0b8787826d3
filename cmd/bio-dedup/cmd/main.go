package cmd

import (
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/readdedup/dedup"
	"v.io/x/lib/cmdline"
)

func newCmdDedup() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "dedup",
		Short: "Keep the first read, or read pair, at each position",
		Long: `
dedup streams reads from -input and writes the first read (or, with -paired,
the first read pair) seen for each (reference, start, end, barcode) key to
-output. Paired input must be collated by name so that mates are adjacent.
The number of reads or pairs per key is written to -counts.`,
	}
	opts := dedup.DefaultOpts
	cmd.Flags.StringVar(&opts.InputPath, "input", "-", "Input BAM or SAM path, or - for stdin")
	cmd.Flags.StringVar(&opts.OutputPath, "output", "-", "Output path, or - for stdout")
	cmd.Flags.StringVar(&opts.CountsPath, "counts", "", "Per-key count report path; .gz paths are BGZF-compressed")
	cmd.Flags.StringVar(&opts.MetricsPath, "metrics", "", "Output metrics file")
	cmd.Flags.StringVar(&opts.Format, "format", "", "Output format, bam or sam. By default it is guessed from -output")
	cmd.Flags.IntVar(&opts.Parallelism, "threads", 1, "Number of compression workers for BAM input and output")
	cmd.Flags.BoolVar(&opts.Paired, "paired", false, "Deduplicate read pairs by their outer coordinates")
	cmd.Flags.BoolVar(&opts.RemoveUnpaired, "remove-unpaired", false, "Drop reads without an adjacent mate before deduplication; requires -paired")
	cmd.Flags.StringVar(&opts.BarcodeRegexp, "barcode-regexp", "", "Regular expression with one capture group that extracts the barcode from the read name")
	cmd.Flags.StringVar(&opts.ExpectedBarcodesPath, "expected-barcodes", "", "File of expected barcodes, one per line; raw barcodes are resolved against it")
	cmd.Flags.IntVar(&opts.MaxEdits, "max-edits", opts.MaxEdits, "Edit budget of the barcode variant neighborhoods")
	cmd.Flags.IntVar(&opts.MaxSubstitutions, "max-substitutions", opts.MaxSubstitutions, "Substitution budget; -1 means -max-edits")
	cmd.Flags.IntVar(&opts.MaxIndels, "max-indels", opts.MaxIndels, "Indel budget; -1 means -max-edits")
	cmd.Flags.IntVar(&opts.SnapDistance, "snap-distance", opts.SnapDistance, "Resolve barcodes to the unique closest expected barcode within this edit distance instead of building variant neighborhoods; -1 disables")
	cmd.Flags.StringVar(&opts.VariantCacheDir, "variant-cache", "", "Directory that caches built variant maps")
	cmd.Flags.BoolVar(&opts.RawBarcodes, "raw-barcodes", false, "Keep captured barcodes verbatim instead of requiring integers")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("dedup takes no arguments, but got %v", argv)
		}
		_, err := dedup.SetupAndRun(vcontext.Background(), &opts)
		return err
	})
	return cmd
}

func newCmdRemoveUnpaired() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "remove-unpaired",
		Short:    "Keep only reads whose adjacent read shares their name",
		ArgsName: "srcpath destpath",
	}
	format := cmd.Flags.String("format", "", "Output format, bam or sam. By default it is guessed from destpath")
	threads := cmd.Flags.Int("threads", 1, "Number of compression workers for BAM input and output")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("remove-unpaired takes srcpath destpath, but found %v", argv)
		}
		stats, err := dedup.SetupAndRemoveUnpaired(vcontext.Background(), argv[0], argv[1], *format, *threads)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "kept %d, dropped %d\n", stats.Kept, stats.Dropped)
		return nil
	})
	return cmd
}

func newRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-dedup",
		Short:    "Coordinate deduplication of aligned reads",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdDedup(),
			newCmdRemoveUnpaired(),
			newCmdVariants(),
			newCmdParseBarcodes(),
		},
	}
}

// Run parses the command line and runs the selected subcommand.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	shutdown := grail.Init()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(newRoot(), env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
