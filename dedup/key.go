package dedup

import (
	"fmt"
	"strconv"
)

// NoLabel is the label of a read that carries no barcode.
var NoLabel = Label{}

// Label is the barcode component of a Key.  The zero Label means the read
// has no barcode.  Labels that are canonical decimal integers sort first,
// in numeric order; all other labels follow in string order.
type Label struct {
	value string
	set   bool
	num   int64
	isNum bool
}

// NewLabel returns the label for barcode v.
func NewLabel(v string) Label {
	l := Label{value: v, set: true}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil && strconv.FormatInt(n, 10) == v {
		l.num, l.isNum = n, true
	}
	return l
}

// Value returns the barcode, and false if there is none.
func (l Label) Value() (string, bool) { return l.value, l.set }

// String returns the barcode, or "-" when there is none.
func (l Label) String() string {
	if !l.set {
		return "-"
	}
	return l.value
}

func (l Label) compare(o Label) int {
	switch {
	case !l.set || !o.set:
		return compareBool(l.set, o.set)
	case l.isNum != o.isNum:
		return compareBool(o.isNum, l.isNum)
	case l.isNum:
		return compareInt64(l.num, o.num)
	case l.value < o.value:
		return -1
	case l.value > o.value:
		return 1
	}
	return 0
}

// Key identifies a unit (a read, or a read pair) for duplicate detection.
// Two units are duplicates iff their keys are equal.
type Key struct {
	// RefID is the reference index in the header; -1 for unmapped reads.
	RefID int
	// Start and End are the 0-based half-open span of the unit. For a
	// pair, this is the outer envelope of both mates.
	Start int
	End   int
	Label Label
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d-%d:%s", k.RefID, k.Start, k.End, k.Label)
}

// compareKeys orders keys by reference (unmapped last), start, end, and
// label.
func compareKeys(a, b Key) int {
	if a.RefID != b.RefID {
		switch {
		case a.RefID < 0:
			return 1
		case b.RefID < 0:
			return -1
		}
		return compareInt(a.RefID, b.RefID)
	}
	if a.Start != b.Start {
		return compareInt(a.Start, b.Start)
	}
	if a.End != b.End {
		return compareInt(a.End, b.End)
	}
	return a.Label.compare(b.Label)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
