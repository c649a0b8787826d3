package barcode

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// WithReader opens path, transparently decompressing gzip files, and passes
// the content to fn.
func WithReader(ctx context.Context, path string, fn func(r io.Reader) error) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return errors.E(err, "gunzip", path)
		}
		defer gz.Close() // nolint: errcheck
		reader = gz
	}
	return fn(reader)
}

// ReadExpectedFrom parses a list of expected barcodes, one per line.  Blank
// lines and lines starting with '#' are ignored; barcodes are upper-cased.
func ReadExpectedFrom(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var expected []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		expected = append(expected, strings.ToUpper(line))
	}
	return expected, scanner.Err()
}

// ReadExpected reads the expected barcode list stored at path.
func ReadExpected(ctx context.Context, path string) (expected []string, err error) {
	err = WithReader(ctx, path, func(r io.Reader) error {
		var err error
		expected, err = ReadExpectedFrom(r)
		return err
	})
	if err != nil {
		return nil, errors.E(err, "read expected barcodes", path)
	}
	return expected, nil
}
