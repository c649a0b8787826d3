package barcode

import (
	"context"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Resolver maps a raw barcode string to its canonical label.  ok is false
// when the raw string cannot be resolved.  Implementations must be safe for
// concurrent use.
type Resolver interface {
	Resolve(raw string) (label string, ok bool)
}

// Entry is one (variant, expected) association of a VariantMap.
type Entry struct {
	Variant  string
	Expected string
}

// VariantMap maps every variant in the neighborhood of an expected
// sequence back to that sequence.  It is immutable after construction and
// safe for concurrent lookups.
type VariantMap struct {
	opts          Opts
	expected      []string
	neighborhoods [][]string // parallel to expected, each sorted
	variants      map[string]int32
}

// NewVariantMap builds the variant map of the given expected sequences.  It
// fails with an *AlphabetError or *BudgetError before generating anything
// if an expected sequence is unsuitable, and with a *CollisionError if two
// neighborhoods intersect.
func NewVariantMap(ctx context.Context, expected []string, opts Opts) (*VariantMap, error) {
	if err := validateOpts(opts); err != nil {
		return nil, errors.E(errors.Invalid, err)
	}
	for _, seq := range expected {
		if err := checkSequence(seq, opts); err != nil {
			return nil, err
		}
	}
	neighborhoods := make([][]string, len(expected))
	parallelism := opts.parallelism()
	if parallelism > len(expected) {
		parallelism = len(expected)
	}
	if parallelism < 1 {
		parallelism = 1
	}
	log.Debug.Printf("generating neighborhoods of %d barcodes (%v) with %d workers", len(expected), opts, parallelism)
	err := traverse.Each(parallelism, func(job int) error {
		start := job * len(expected) / parallelism
		end := (job + 1) * len(expected) / parallelism
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			neighborhoods[i] = neighborhood(expected[i], opts)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newVariantMap(expected, neighborhoods, opts)
}

// newVariantMap merges precomputed neighborhoods in input order.
func newVariantMap(expected []string, neighborhoods [][]string, opts Opts) (*VariantMap, error) {
	m := &VariantMap{
		opts:          opts,
		expected:      append([]string(nil), expected...),
		neighborhoods: neighborhoods,
	}
	n := 0
	for _, nb := range neighborhoods {
		n += len(nb)
	}
	m.variants = make(map[string]int32, n)
	for i := range expected {
		if err := mergeNeighborhood(m.variants, expected, int32(i), neighborhoods[i]); err != nil {
			return nil, err
		}
	}
	log.Debug.Printf("variant map: %d barcodes, %d variants", len(expected), len(m.variants))
	return m, nil
}

// mergeNeighborhood assigns each variant in nb to expected[idx].  nb must
// be sorted, so the first collision found involves the smallest shared
// variant.
func mergeNeighborhood(assigned map[string]int32, expected []string, idx int32, nb []string) error {
	for _, v := range nb {
		if prev, ok := assigned[v]; ok {
			return &CollisionError{Expected: expected[idx], Other: expected[prev], Variant: v}
		}
		assigned[v] = idx
	}
	return nil
}

// Lookup returns the expected sequence whose neighborhood contains v.
func (m *VariantMap) Lookup(v string) (string, bool) {
	idx, ok := m.variants[v]
	if !ok {
		return "", false
	}
	return m.expected[idx], true
}

// Resolve implements Resolver.
func (m *VariantMap) Resolve(raw string) (string, bool) {
	return m.Lookup(raw)
}

// Len returns the number of variants.
func (m *VariantMap) Len() int { return len(m.variants) }

// Expected returns the expected sequences in input order.
func (m *VariantMap) Expected() []string { return m.expected }

// Opts returns the options the map was built with.
func (m *VariantMap) Opts() Opts { return m.opts }

// Neighborhood returns the sorted neighborhood of expected[i].
func (m *VariantMap) Neighborhood(i int) []string { return m.neighborhoods[i] }

// Entries returns every (variant, expected) pair, sorted by variant.
func (m *VariantMap) Entries() []Entry {
	entries := make([]Entry, 0, len(m.variants))
	for v, idx := range m.variants {
		entries = append(entries, Entry{Variant: v, Expected: m.expected[idx]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Variant < entries[j].Variant })
	return entries
}
