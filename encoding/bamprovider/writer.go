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

type recordEncoder interface {
	Write(r *sam.Record) error
}

// streamWriter writes records to a BAM or SAM file, or to standard output.
type streamWriter struct {
	path string
	ctx  context.Context
	out  file.File
	bamW *bam.Writer
	enc  recordEncoder
	err  baseerrors.Once
}

// NewWriter creates a RecordWriter for path with the given header.  An
// empty path or "-" writes BAM to standard output.  format overrides the
// type guessed from the path unless it is Unknown.  parallelism is the
// number of BGZF compression goroutines.
func NewWriter(ctx context.Context, path string, header *sam.Header, format FileType, parallelism int) (RecordWriter, error) {
	w := &streamWriter{path: path, ctx: ctx}
	var dst io.Writer
	if path == "" || path == "-" {
		dst = os.Stdout
	} else {
		out, err := file.Create(ctx, path)
		if err != nil {
			return nil, errors.Wrapf(err, "create %s", path)
		}
		w.out = out
		dst = out.Writer(ctx)
	}
	if format == Unknown {
		format = GuessFileType(path)
	}
	var err error
	switch format {
	case SAM:
		w.enc, err = sam.NewWriter(dst, header, sam.FlagDecimal)
	default:
		w.bamW, err = bam.NewWriter(dst, header, parallelism)
		w.enc = w.bamW
	}
	if err != nil {
		err = errors.Wrapf(err, "write header to %s", path)
		w.Close() // nolint: errcheck
		return nil, err
	}
	return w, nil
}

// Write implements the RecordWriter interface.
func (w *streamWriter) Write(r *sam.Record) error {
	if err := w.enc.Write(r); err != nil {
		w.err.Set(errors.Wrapf(err, "write %s to %s", r.Name, w.path))
	}
	return w.err.Err()
}

// Close implements the RecordWriter interface.
func (w *streamWriter) Close() error {
	if w.bamW != nil {
		w.err.Set(w.bamW.Close())
		w.bamW = nil
	}
	if w.out != nil {
		w.err.Set(w.out.Close(w.ctx))
		w.out = nil
	}
	return w.err.Err()
}
