package barcode

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseOpts configures ParseBarcodes.
type ParseOpts struct {
	// Split separates the fields of a line; the last field is matched.  An
	// empty Split matches the whole line.
	Split string
	// MaxUnmatched is the number of unmatched lines retained for
	// debugging.
	MaxUnmatched int
}

// DefaultParseOpts matches the read name suffix after "::".
var DefaultParseOpts = ParseOpts{
	Split:        "::",
	MaxUnmatched: 100,
}

// ParseResult is the outcome of ParseBarcodes.
type ParseResult struct {
	// Columns are the named groups of the pattern, in pattern order.
	Columns []string
	// Records holds one row per matched line, aligned with Columns.
	// Optional groups that did not participate are empty.
	Records [][]string
	// NumUnmatched counts lines the pattern did not match.
	NumUnmatched int
	// Unmatched holds the first MaxUnmatched unmatched lines.
	Unmatched []string
}

// ParseBarcodes matches the last field of every line of r against re, and
// returns the named groups of each match.
func ParseBarcodes(r io.Reader, re *regexp.Regexp, opts ParseOpts) (*ParseResult, error) {
	res := &ParseResult{}
	var groups []int
	for i, name := range re.SubexpNames() {
		if name != "" {
			res.Columns = append(res.Columns, name)
			groups = append(groups, i)
		}
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("pattern %s has no named groups", re.String())
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	for scanner.Scan() {
		line := scanner.Text()
		field := strings.TrimSpace(line)
		if opts.Split != "" {
			if i := strings.LastIndex(field, opts.Split); i >= 0 {
				field = field[i+len(opts.Split):]
			}
		}
		m := re.FindStringSubmatch(field)
		if m == nil {
			if res.NumUnmatched < opts.MaxUnmatched {
				res.Unmatched = append(res.Unmatched, line)
			}
			res.NumUnmatched++
			continue
		}
		row := make([]string, len(groups))
		for i, g := range groups {
			row[i] = m[g]
		}
		res.Records = append(res.Records, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
