package bamprovider

import (
	"github.com/grailbio/hts/sam"
)

// fakeIterator is only for unittests. It yields the given records, then
// reports err.
type fakeIterator struct {
	recs []*sam.Record
	rec  *sam.Record
	err  error
}

// NewFakeIterator creates an iterator that yields recs in order.
func NewFakeIterator(recs []*sam.Record) Iterator {
	return &fakeIterator{recs: recs}
}

// NewErrorIterator creates an Iterator that yields no record and returns
// err from Err and Close.
func NewErrorIterator(err error) Iterator {
	return &fakeIterator{err: err}
}

// Scan implements the Iterator interface.
func (i *fakeIterator) Scan() bool {
	if len(i.recs) == 0 {
		return false
	}
	i.rec, i.recs = i.recs[0], i.recs[1:]
	return true
}

// Record implements the Iterator interface. It returns a copy, so callers
// may modify it without touching the test input.
func (i *fakeIterator) Record() *sam.Record {
	r := sam.GetFromFreePool()
	*r = *i.rec
	return r
}

// Err implements the Iterator interface.
func (i *fakeIterator) Err() error { return i.err }

// Close implements the Iterator interface.
func (i *fakeIterator) Close() error { return i.err }

// FakeWriter is only for unittests.  It collects the records written to it.
type FakeWriter struct {
	Records []*sam.Record
	Closed  bool
}

// Write implements the RecordWriter interface.
func (w *FakeWriter) Write(r *sam.Record) error {
	w.Records = append(w.Records, r)
	return nil
}

// Close implements the RecordWriter interface.
func (w *FakeWriter) Close() error {
	w.Closed = true
	return nil
}
