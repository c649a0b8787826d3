package dedup

import (
	"fmt"
	"regexp"

	"github.com/grailbio/readdedup/barcode"
)

// Extractor derives the barcode label of a read from its query name.
type Extractor struct {
	re       *regexp.Regexp
	resolver barcode.Resolver
}

// NewExtractor compiles pattern, which must contain exactly one capture
// group.  The captured text is passed through resolver; a nil resolver
// requires integer barcodes and canonicalizes them.
func NewExtractor(pattern string, resolver barcode.Resolver) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad barcode pattern %s: %v", pattern, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("barcode pattern %s must have exactly one capture group, found %d", pattern, re.NumSubexp())
	}
	if resolver == nil {
		resolver = barcode.IntegerResolver{}
	}
	return &Extractor{re: re, resolver: resolver}, nil
}

// Label returns the label of the read with the given name.  A nil Extractor
// returns NoLabel for every read.
func (e *Extractor) Label(name string) (Label, error) {
	if e == nil {
		return NoLabel, nil
	}
	m := e.re.FindStringSubmatch(name)
	if m == nil {
		return NoLabel, &UnmatchedError{Name: name, Pattern: e.re.String()}
	}
	label, ok := e.resolver.Resolve(m[1])
	if !ok {
		return NoLabel, &UnresolvedError{Name: name, Barcode: m[1]}
	}
	return NewLabel(label), nil
}
