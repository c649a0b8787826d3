package dedup

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readdedup/encoding/bamprovider"
)

// Deduplicator streams reads, or read pairs, and keeps the first unit seen
// for each Key.  It is not safe for concurrent use.  Counts accumulate
// across calls to Process.
type Deduplicator struct {
	paired    bool
	extractor *Extractor
	counts    *CountTable
	metrics   Metrics
}

// New creates a Deduplicator.  In paired mode, the input must be collated
// by name so that mates are adjacent.  extractor may be nil, in which case
// every unit carries NoLabel.
func New(paired bool, extractor *Extractor) *Deduplicator {
	return &Deduplicator{
		paired:    paired,
		extractor: extractor,
		counts:    NewCountTable(),
	}
}

// Counts returns the count table accumulated so far.
func (d *Deduplicator) Counts() *CountTable { return d.counts }

// Metrics returns the counters accumulated so far.
func (d *Deduplicator) Metrics() Metrics {
	m := d.metrics
	m.UnitsEmitted = d.counts.Len()
	return m
}

// Process reads iter to the end.  The first unit seen for each key is
// written to w; every unit increments the count of its key.  In paired
// mode both mates of a kept pair are written, in input order.
//
// The first malformed unit aborts processing with a *FormatError,
// *UnmatchedError, or *UnresolvedError.  Process also stops between units
// when ctx is canceled.  In both cases the counts reflect the units
// processed so far.  Process does not close iter or w.
func (d *Deduplicator) Process(ctx context.Context, iter bamprovider.Iterator, w bamprovider.RecordWriter) error {
	var pending *sam.Record
	for iter.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := iter.Record()
		d.metrics.ReadsExamined++
		if !d.paired {
			if err := d.processRead(r, w); err != nil {
				return err
			}
			continue
		}
		if pending == nil {
			pending = r
			continue
		}
		pair := readPair{first: pending, second: r}
		pending = nil
		if err := d.processPair(&pair, w); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if pending != nil {
		return &FormatError{Name: pending.Name, Ref: pending.Ref.Name(), Reason: "last read has no mate"}
	}
	return nil
}

func (d *Deduplicator) label(name string) (Label, error) {
	label, err := d.extractor.Label(name)
	if err != nil {
		return label, err
	}
	if _, ok := label.Value(); ok {
		d.metrics.LabelledUnits++
	}
	return label, nil
}

func (d *Deduplicator) processRead(r *sam.Record, w bamprovider.RecordWriter) error {
	label, err := d.label(r.Name)
	if err != nil {
		return err
	}
	key := Key{RefID: r.Ref.ID(), Start: r.Start(), End: r.End(), Label: label}
	d.metrics.UnitsExamined++
	if !d.counts.Add(key) {
		d.metrics.DuplicateUnits++
		return nil
	}
	return w.Write(r)
}

func (d *Deduplicator) processPair(p *readPair, w bamprovider.RecordWriter) error {
	refID, start, end, err := p.envelope()
	if err != nil {
		return err
	}
	label, err := d.label(p.first.Name)
	if err != nil {
		return err
	}
	key := Key{RefID: refID, Start: start, End: end, Label: label}
	d.metrics.UnitsExamined++
	if !d.counts.Add(key) {
		if log.At(log.Debug) {
			log.Debug.Printf("duplicate pair %v: key %v", p, key)
		}
		d.metrics.DuplicateUnits++
		return nil
	}
	if err := w.Write(p.first); err != nil {
		return err
	}
	return w.Write(p.second)
}
