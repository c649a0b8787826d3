package cmd

import (
	"context"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// withWriter calls fn with a writer for path.  An empty path or "-" is
// stdout.
func withWriter(ctx context.Context, path string, fn func(w io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return fn(os.Stdout)
	}
	var f file.File
	if f, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create", path)
	}
	defer file.CloseAndReport(ctx, f, &err)
	return fn(f.Writer(ctx))
}
