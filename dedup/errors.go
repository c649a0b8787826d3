package dedup

import "fmt"

// FormatError reports a malformed record or read pair.
type FormatError struct {
	// Name is the query name of the offending record.
	Name string
	// Ref is the reference name of the offending record.
	Ref    string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("read %s (%s): %s", e.Name, e.Ref, e.Reason)
}

// UnmatchedError reports a read name the barcode pattern does not match.
type UnmatchedError struct {
	Name    string
	Pattern string
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("read name %s does not match barcode pattern %s", e.Name, e.Pattern)
}

// UnresolvedError reports a barcode the configured resolver does not
// accept.
type UnresolvedError struct {
	Name    string
	Barcode string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("read %s: barcode %s does not resolve to an expected barcode", e.Name, e.Barcode)
}
