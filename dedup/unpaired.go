package dedup

import (
	"context"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readdedup/encoding/bamprovider"
)

// pairFilter wraps a name-collated iterator and yields only reads whose
// neighbor shares their name, as consecutive pairs.  A read that does not
// pair with its successor is dropped, and the successor starts a new
// candidate pair.
type pairFilter struct {
	iter    bamprovider.Iterator
	pending *sam.Record
	mate    *sam.Record
	out     *sam.Record

	kept, dropped int
}

// NewPairFilter returns an iterator over the paired reads of iter.
// Closing it closes iter.
func NewPairFilter(iter bamprovider.Iterator) bamprovider.Iterator {
	return &pairFilter{iter: iter}
}

// Scan implements the bamprovider.Iterator interface.
func (f *pairFilter) Scan() bool {
	if f.mate != nil {
		f.out, f.mate = f.mate, nil
		return true
	}
	for f.iter.Scan() {
		r := f.iter.Record()
		if f.pending != nil && f.pending.Name == r.Name {
			f.out, f.mate, f.pending = f.pending, r, nil
			f.kept += 2
			return true
		}
		if f.pending != nil {
			f.dropped++
		}
		f.pending = r
	}
	if f.pending != nil {
		f.dropped++
		f.pending = nil
	}
	return false
}

// Record implements the bamprovider.Iterator interface.
func (f *pairFilter) Record() *sam.Record { return f.out }

// Err implements the bamprovider.Iterator interface.
func (f *pairFilter) Err() error { return f.iter.Err() }

// Close implements the bamprovider.Iterator interface.
func (f *pairFilter) Close() error { return f.iter.Close() }

// UnpairedStats counts the reads seen by RemoveUnpaired.
type UnpairedStats struct {
	Kept    int
	Dropped int
}

// RemoveUnpaired copies the paired reads of a name-collated stream to w
// and drops the rest.  It stops between reads when ctx is canceled.
func RemoveUnpaired(ctx context.Context, iter bamprovider.Iterator, w bamprovider.RecordWriter) (UnpairedStats, error) {
	f := &pairFilter{iter: iter}
	for f.Scan() {
		if err := ctx.Err(); err != nil {
			return UnpairedStats{f.kept, f.dropped}, err
		}
		if err := w.Write(f.Record()); err != nil {
			return UnpairedStats{f.kept, f.dropped}, err
		}
	}
	return UnpairedStats{f.kept, f.dropped}, f.Err()
}
