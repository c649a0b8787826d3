package barcode

import "fmt"

// AlphabetError is returned when an expected sequence contains a base that
// is not part of the configured alphabet.
type AlphabetError struct {
	Sequence string
	Char     byte
	Alphabet string
}

func (e *AlphabetError) Error() string {
	return fmt.Sprintf("barcode %s: base %q is not in alphabet %s", e.Sequence, e.Char, e.Alphabet)
}

// BudgetError is returned when the estimated neighborhood of an expected
// sequence exceeds Opts.MaxNeighborhoodSize.
type BudgetError struct {
	Sequence string
	Estimate uint64
	Limit    int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("barcode %s: neighborhood may reach %d strings, limit is %d", e.Sequence, e.Estimate, e.Limit)
}

// CollisionError is returned when two expected sequences share a variant.
// Variant is the lexicographically smallest shared variant.
type CollisionError struct {
	Expected string
	Other    string
	Variant  string
}

func (e *CollisionError) Error() string {
	if e.Expected == e.Other {
		return fmt.Sprintf("expected barcode %s is listed more than once", e.Expected)
	}
	return fmt.Sprintf("barcodes %s and %s collide at variant %s; the edit budget is too large for this barcode set",
		e.Other, e.Expected, e.Variant)
}
