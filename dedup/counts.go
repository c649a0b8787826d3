package dedup

import (
	"context"
	"io"
	"strconv"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/hts/sam"
)

// CountTable counts the occurrences of each Key.  It is owned by a single
// Deduplicator and is not safe for concurrent use.
type CountTable struct {
	counts map[Key]uint64
}

// NewCountTable returns an empty table.
func NewCountTable() *CountTable {
	return &CountTable{counts: map[Key]uint64{}}
}

// Add increments the count of k, and reports whether k was seen for the
// first time.
func (t *CountTable) Add(k Key) (first bool) {
	n := t.counts[k]
	t.counts[k] = n + 1
	return n == 0
}

// Count returns the number of occurrences of k.
func (t *CountTable) Count(k Key) uint64 { return t.counts[k] }

// Len returns the number of distinct keys.
func (t *CountTable) Len() int { return len(t.counts) }

// ReportRow is one line of the count report.
type ReportRow struct {
	Key
	// Ref is the reference name, or "*" for unmapped units.
	Ref   string
	Count uint64
}

type reportEntry struct {
	key   Key
	count uint64
}

// Compare implements llrb.Comparable.
func (e reportEntry) Compare(c llrb.Comparable) int {
	o := c.(reportEntry)
	if c := compareKeys(e.key, o.key); c != 0 {
		return c
	}
	switch {
	case e.count < o.count:
		return -1
	case e.count > o.count:
		return 1
	}
	return 0
}

// Report returns one row per distinct key, ordered by reference
// declaration order in header (unmapped last), start, end, label, and
// count.
func (t *CountTable) Report(header *sam.Header) []ReportRow {
	var refs []*sam.Reference
	if header != nil {
		refs = header.Refs()
	}
	tree := llrb.Tree{}
	for k, n := range t.counts {
		tree.Insert(reportEntry{key: k, count: n})
	}
	rows := make([]ReportRow, 0, tree.Len())
	tree.Do(func(c llrb.Comparable) (done bool) {
		e := c.(reportEntry)
		ref := "*"
		if e.key.RefID >= 0 && e.key.RefID < len(refs) {
			ref = refs[e.key.RefID].Name()
		}
		rows = append(rows, ReportRow{Key: e.key, Ref: ref, Count: e.count})
		return false
	})
	return rows
}

// WriteReportTo writes rows as tab-separated chr, start, end, barcode, and
// count columns, without a header line.
func WriteReportTo(w io.Writer, rows []ReportRow) error {
	tw := tsv.NewWriter(w)
	for _, r := range rows {
		tw.WriteString(r.Ref)
		tw.WriteString(strconv.Itoa(r.Start))
		tw.WriteString(strconv.Itoa(r.End))
		tw.WriteString(r.Label.String())
		tw.WriteString(strconv.FormatUint(r.Count, 10))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteReport writes rows to path.  Paths ending in .gz are
// BGZF-compressed with the given parallelism.
func WriteReport(ctx context.Context, path string, rows []ReportRow, parallelism int) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create count report", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if fileio.DetermineType(path) != fileio.Gzip {
		if err = WriteReportTo(out.Writer(ctx), rows); err != nil {
			return errors.E(err, "error writing count report", path)
		}
		return nil
	}
	bgzfWriter := bgzf.NewWriter(out.Writer(ctx), parallelism)
	if err = WriteReportTo(bgzfWriter, rows); err != nil {
		return errors.E(err, "error writing count report", path)
	}
	if err = bgzfWriter.Close(); err != nil {
		return errors.E(err, "error closing count report", path)
	}
	return nil
}
