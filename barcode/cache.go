package barcode

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/dgryski/go-farm"
	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/readdedup/util"
)

const (
	cacheMagic    = "#readdedup-variants"
	cacheChecksum = "#seahash"
)

// CacheKey fingerprints the inputs of a VariantMap: the expected sequences
// in order, the effective budgets, and the alphabet.
func CacheKey(expected []string, opts Opts) uint64 {
	s := opts.String() + "\n" + strings.Join(expected, "\n")
	return farm.Fingerprint64(unsafe.StringToBytes(s))
}

// CachePath returns the file under dir that caches the map of the given
// inputs.
func CachePath(dir string, expected []string, opts Opts) string {
	return filepath.Join(dir, fmt.Sprintf("variants-%016x.sz", CacheKey(expected, opts)))
}

// encodeVariantMap serializes m.  Line one names the cache key.  Each
// following line holds an expected sequence and its comma-separated
// neighborhood.  The last line is a seahash checksum of everything before
// it.
func encodeVariantMap(m *VariantMap) []byte {
	buf := bytes.Buffer{}
	fmt.Fprintf(&buf, "%s\t%016x\n", cacheMagic, CacheKey(m.expected, m.opts))
	for i, seq := range m.expected {
		buf.WriteString(seq)
		buf.WriteByte('\t')
		for j, v := range m.neighborhoods[i] {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(v)
		}
		buf.WriteByte('\n')
	}
	sum := seahash.Sum64(buf.Bytes())
	fmt.Fprintf(&buf, "%s\t%016x\n", cacheChecksum, sum)
	return buf.Bytes()
}

func decodeVariantMap(data []byte, expected []string, opts Opts) (*VariantMap, error) {
	body := data
	if n := len(body); n > 0 && body[n-1] == '\n' {
		body = body[:n-1]
	}
	i := bytes.LastIndexByte(body, '\n')
	if i < 0 {
		return nil, errors.E(errors.Integrity, "truncated variant cache")
	}
	payload, trailer := data[:i+1], string(body[i+1:])
	fields := strings.Split(trailer, "\t")
	if len(fields) != 2 || fields[0] != cacheChecksum {
		return nil, errors.E(errors.Integrity, "missing variant cache checksum")
	}
	want, err := strconv.ParseUint(fields[1], 16, 64)
	if err != nil {
		return nil, errors.E(errors.Integrity, "bad variant cache checksum", err)
	}
	if got := seahash.Sum64(payload); got != want {
		return nil, errors.E(errors.Integrity, fmt.Sprintf("variant cache checksum mismatch: %016x != %016x", got, want))
	}

	lines := strings.Split(strings.TrimSuffix(string(payload), "\n"), "\n")
	wantHeader := fmt.Sprintf("%s\t%016x", cacheMagic, CacheKey(expected, opts))
	if lines[0] != wantHeader {
		return nil, errors.E(errors.Integrity, fmt.Sprintf("variant cache header %q, want %q", lines[0], wantHeader))
	}
	lines = lines[1:]
	if len(lines) != len(expected) {
		return nil, errors.E(errors.Integrity, fmt.Sprintf("variant cache has %d barcodes, want %d", len(lines), len(expected)))
	}
	subs, indels := opts.budgets()
	neighborhoods := make([][]string, len(expected))
	for i, line := range lines {
		tab := strings.IndexByte(line, '\t')
		if tab < 0 || line[:tab] != expected[i] {
			return nil, errors.E(errors.Integrity, fmt.Sprintf("variant cache line %d does not describe %s", i+2, expected[i]))
		}
		nb := strings.Split(line[tab+1:], ",")
		if !sort.StringsAreSorted(nb) {
			sort.Strings(nb)
		}
		for _, v := range nb {
			if !util.WithinBudget(expected[i], v, opts.MaxEdits, subs, indels) {
				return nil, errors.E(errors.Integrity, fmt.Sprintf("cached variant %s of %s exceeds %v", v, expected[i], opts))
			}
		}
		neighborhoods[i] = nb
	}
	return newVariantMap(expected, neighborhoods, opts)
}

// WriteVariantMap stores m in path, snappy-compressed.
func WriteVariantMap(ctx context.Context, path string, m *VariantMap) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := snappy.NewBufferedWriter(out.Writer(ctx))
	if _, err = w.Write(encodeVariantMap(m)); err != nil {
		return errors.E(err, "write", path)
	}
	if err = w.Close(); err != nil {
		return errors.E(err, "close snappy writer", path)
	}
	return nil
}

// ReadVariantMap loads a map written by WriteVariantMap.  The stored map
// must have been built from the same expected sequences and opts.
func ReadVariantMap(ctx context.Context, path string, expected []string, opts Opts) (m *VariantMap, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	data, err := ioutil.ReadAll(snappy.NewReader(in.Reader(ctx)))
	if err != nil {
		return nil, errors.E(err, "read", path)
	}
	if m, err = decodeVariantMap(data, expected, opts); err != nil {
		return nil, errors.E(err, path)
	}
	return m, nil
}

// LoadOrBuild returns the variant map of expected, reading it from the
// cache directory dir when a valid entry exists and building and storing
// it otherwise.  An empty dir disables caching.
func LoadOrBuild(ctx context.Context, dir string, expected []string, opts Opts) (*VariantMap, error) {
	if dir == "" {
		return NewVariantMap(ctx, expected, opts)
	}
	path := CachePath(dir, expected, opts)
	if _, err := file.Stat(ctx, path); err == nil {
		m, err := ReadVariantMap(ctx, path, expected, opts)
		if err == nil {
			log.Printf("loaded %d variants of %d barcodes from %s", m.Len(), len(expected), path)
			return m, nil
		}
		log.Error.Printf("ignoring variant cache %s: %v", path, err)
	}
	m, err := NewVariantMap(ctx, expected, opts)
	if err != nil {
		return nil, err
	}
	if err := WriteVariantMap(ctx, path, m); err != nil {
		return nil, err
	}
	log.Printf("cached %d variants of %d barcodes in %s", m.Len(), len(expected), path)
	return m, nil
}
