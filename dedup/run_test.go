package dedup

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readdedup/encoding/bamprovider"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, path string, recs []*sam.Record) {
	w, err := bamprovider.NewWriter(context.Background(), path, header, bamprovider.Unknown, 1)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
}

func readOutput(t *testing.T, path string) []*sam.Record {
	iter, err := bamprovider.NewStreamIterator(context.Background(), path, 1)
	require.NoError(t, err)
	var recs []*sam.Record
	for iter.Scan() {
		recs = append(recs, iter.Record())
	}
	require.NoError(t, iter.Close())
	return recs
}

func TestSetupAndRunPaired(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	in := filepath.Join(tmpDir, "in.bam")
	writeInput(t, in, concat(
		NewPair("P1:3", chr1, 100, 200, false),
		[]*sam.Record{NewRecord("stray:4", chr1, 0, r1F, 0, chr1, cigar0)},
		NewPair("P2:3", chr1, 100, 200, true),
		NewPair("P3:4", chr1, 100, 200, false),
	))

	opts := DefaultOpts
	opts.InputPath = in
	opts.OutputPath = filepath.Join(tmpDir, "out.sam")
	opts.CountsPath = filepath.Join(tmpDir, "counts.bed")
	opts.MetricsPath = filepath.Join(tmpDir, "metrics.txt")
	opts.Paired = true
	opts.RemoveUnpaired = true
	opts.BarcodeRegexp = `:(\d+)$`
	rows, err := SetupAndRun(ctx, &opts)
	require.NoError(t, err)
	require.Equal(t, 2, len(rows))

	assert.Equal(t, []string{"P1:3", "P1:3", "P3:4", "P3:4"}, names(readOutput(t, opts.OutputPath)))

	counts, err := ioutil.ReadFile(opts.CountsPath)
	require.NoError(t, err)
	expect.EQ(t, string(counts), "chr1\t100\t200\t3\t2\nchr1\t100\t200\t4\t1\n")

	metrics, err := ioutil.ReadFile(opts.MetricsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(metrics)), "\n")
	require.Equal(t, 4, len(lines))
	expect.EQ(t, lines[1], "# unit: read pair")
	expect.EQ(t, lines[3], "6\t3\t2\t1\t3\t33.333333")
}

func TestSetupAndRunVariantMap(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	in := filepath.Join(tmpDir, "in.sam")
	writeInput(t, in, []*sam.Record{
		NewRecord("r1_AAAAAA", chr1, 10, 0, -1, nil, cigar0),
		NewRecord("r2_AAAACA", chr1, 10, 0, -1, nil, cigar0),
		NewRecord("r3_TTTTTT", chr1, 10, 0, -1, nil, cigar0),
	})
	expected := filepath.Join(tmpDir, "expected.txt")
	require.NoError(t, ioutil.WriteFile(expected, []byte("AAAAAA\nTTTTTT\n"), 0644))

	for _, snap := range []int{-1, 2} {
		opts := DefaultOpts
		opts.InputPath = in
		opts.OutputPath = filepath.Join(tmpDir, "out.bam")
		opts.BarcodeRegexp = `_([ACGTN]+)$`
		opts.ExpectedBarcodesPath = expected
		opts.SnapDistance = snap
		if snap < 0 {
			opts.VariantCacheDir = tmpDir
		}
		rows, err := SetupAndRun(ctx, &opts)
		require.NoError(t, err)
		require.Equal(t, 2, len(rows))
		buf := bytes.Buffer{}
		require.NoError(t, WriteReportTo(&buf, rows))
		expect.EQ(t, buf.String(), "chr1\t10\t20\tAAAAAA\t2\nchr1\t10\t20\tTTTTTT\t1\n")
		assert.Equal(t, []string{"r1_AAAAAA", "r3_TTTTTT"}, names(readOutput(t, opts.OutputPath)))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		modify func(o *Opts)
		ok     bool
	}{
		{func(o *Opts) {}, true},
		{func(o *Opts) { o.InputPath = "" }, false},
		{func(o *Opts) { o.Format = "cram" }, false},
		{func(o *Opts) { o.Format = "sam" }, true},
		{func(o *Opts) { o.RemoveUnpaired = true }, false},
		{func(o *Opts) { o.ExpectedBarcodesPath = "x.txt" }, false},
		{func(o *Opts) { o.SnapDistance = 1 }, false},
		{func(o *Opts) { o.VariantCacheDir = "/tmp" }, false},
		{func(o *Opts) { o.MaxEdits = -1 }, false},
		{func(o *Opts) { o.Parallelism = -1 }, false},
	}
	for i, test := range tests {
		opts := DefaultOpts
		test.modify(&opts)
		err := validate(&opts)
		assert.Equal(t, test.ok, err == nil, "case %d: %v", i, err)
	}
}

func TestNewExtractor(t *testing.T) {
	_, err := NewExtractor(`:\d+$`, nil)
	assert.Error(t, err)
	_, err = NewExtractor(`:(\d+)_(\d+)$`, nil)
	assert.Error(t, err)
	_, err = NewExtractor(`:(\d+$`, nil)
	assert.Error(t, err)

	var e *Extractor
	label, err := e.Label("anything")
	require.NoError(t, err)
	expect.EQ(t, label, NoLabel)
}
