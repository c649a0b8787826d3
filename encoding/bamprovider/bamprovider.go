package bamprovider

import (
	"context"
	"io"
	"os"

	baseerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// recordReader is the subset of bam.Reader and sam.Reader used by
// StreamIterator.
type recordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

// StreamIterator reads a BAM or SAM stream from start to end, in file order.
// It does not need an index, so it also reads from standard input.
type StreamIterator struct {
	// Path of the input; "-" means standard input.
	Path string

	ctx    context.Context
	in     file.File
	bamR   *bam.Reader
	reader recordReader
	err    baseerrors.Once
	next   *sam.Record
	done   bool
}

// NewStreamIterator opens path and reads its header.  Paths ending in .sam
// are parsed as SAM, everything else as BAM.  parallelism is the number of
// BGZF decompression goroutines; zero lets the codec decide.
func NewStreamIterator(ctx context.Context, path string, parallelism int) (*StreamIterator, error) {
	i := &StreamIterator{Path: path, ctx: ctx}
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		in, err := file.Open(ctx, path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		i.in = in
		r = in.Reader(ctx)
	}
	var err error
	if GuessFileType(path) == SAM {
		i.reader, err = sam.NewReader(r)
	} else {
		i.bamR, err = bam.NewReader(r, parallelism)
		i.reader = i.bamR
	}
	if err != nil {
		err = errors.Wrapf(err, "read header of %s", path)
		i.internalClose()
		return nil, err
	}
	return i, nil
}

// Header returns the header of the input.  The caller must not modify it.
func (i *StreamIterator) Header() *sam.Header {
	return i.reader.Header()
}

// Scan implements the Iterator interface.
func (i *StreamIterator) Scan() bool {
	if i.done || i.err.Err() != nil {
		return false
	}
	rec, err := i.reader.Read()
	if err != nil {
		i.done = true
		if err != io.EOF {
			i.err.Set(errors.Wrapf(err, "read %s", i.Path))
		}
		return false
	}
	i.next = rec
	return true
}

// Record implements the Iterator interface.
func (i *StreamIterator) Record() *sam.Record {
	return i.next
}

// Err implements the Iterator interface.
func (i *StreamIterator) Err() error {
	return i.err.Err()
}

// Close implements the Iterator interface.
func (i *StreamIterator) Close() error {
	i.internalClose()
	return i.err.Err()
}

func (i *StreamIterator) internalClose() {
	if i.bamR != nil {
		i.err.Set(i.bamR.Close())
		i.bamR = nil
	}
	if i.in != nil {
		i.err.Set(i.in.Close(i.ctx))
		i.in = nil
	}
}
