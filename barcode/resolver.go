package barcode

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/readdedup/util"
)

// IdentityResolver accepts every raw barcode unchanged.
type IdentityResolver struct{}

// Resolve implements Resolver.
func (IdentityResolver) Resolve(raw string) (string, bool) { return raw, true }

// IntegerResolver accepts decimal integer barcodes and canonicalizes them,
// so "007" and "7" resolve to the same label.
type IntegerResolver struct{}

// Resolve implements Resolver.
func (IntegerResolver) Resolve(raw string) (string, bool) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatInt(n, 10), true
}

type snapEntry struct {
	expected string
	edits    int
}

// SnapResolver implements "snap" correction of barcodes.  A barcode B is
// snappable if there is an expected barcode B1 that is closer to B than
// all other expected barcodes, in terms of Levenshtein edit distance, and
// no farther than maxDist edits.
type SnapResolver struct {
	expected []string
	maxDist  int

	mu sync.Mutex
	// table caches the outcome for each raw barcode seen so far. A
	// negative edits value marks an unsnappable barcode.
	table map[string]snapEntry
}

// NewSnapResolver creates a new snap resolver.  Expected barcodes must
// consist of characters ACGT.  A negative maxDist means no distance limit.
func NewSnapResolver(expected []string, maxDist int) (*SnapResolver, error) {
	if len(expected) == 0 {
		return nil, fmt.Errorf("no expected barcodes")
	}
	known := make([]string, len(expected))
	seen := map[string]bool{}
	for i, seq := range expected {
		seq = strings.ToUpper(seq)
		if err := validateSequence(seq, DefaultAlphabet); err != nil {
			return nil, err
		}
		if seen[seq] {
			return nil, &CollisionError{Expected: seq, Other: seq, Variant: seq}
		}
		seen[seq] = true
		known[i] = seq
	}
	return &SnapResolver{
		expected: known,
		maxDist:  maxDist,
		table:    map[string]snapEntry{},
	}, nil
}

// Correct returns the expected barcode raw snaps to, the number of edits
// between them, and true if there is exactly one expected barcode that is
// closest to raw.  Otherwise it returns raw, -1, and false.
func (c *SnapResolver) Correct(raw string) (corrected string, edits int, ok bool) {
	raw = strings.ToUpper(raw)
	c.mu.Lock()
	entry, found := c.table[raw]
	c.mu.Unlock()
	if !found {
		entry = c.snap(raw)
		c.mu.Lock()
		c.table[raw] = entry
		c.mu.Unlock()
	}
	if entry.edits < 0 {
		return raw, -1, false
	}
	return entry.expected, entry.edits, true
}

func (c *SnapResolver) snap(raw string) snapEntry {
	best, nBest := -1, 0
	var closest string
	for _, known := range c.expected {
		cost := util.Levenshtein(raw, known)
		switch {
		case best < 0 || cost < best:
			best, nBest, closest = cost, 1, known
		case cost == best:
			nBest++
		}
	}
	if nBest != 1 || (c.maxDist >= 0 && best > c.maxDist) {
		log.Debug.Printf("%s does not snap (best cost %d shared by %d barcodes)", raw, best, nBest)
		return snapEntry{edits: -1}
	}
	log.Debug.Printf("%s snaps to %s with cost %d", raw, closest, best)
	return snapEntry{expected: closest, edits: best}
}

// Resolve implements Resolver.
func (c *SnapResolver) Resolve(raw string) (string, bool) {
	corrected, _, ok := c.Correct(raw)
	return corrected, ok
}
