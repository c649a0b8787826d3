package bamprovider

import (
	"strings"

	"github.com/grailbio/hts/sam"
)

// Iterator iterates over sam.Records in input order. Thread compatible.
type Iterator interface {
	// Scan returns where there are any records remaining in the iterator,
	// and if so, advances the iterator to the next record. If the iterator
	// reaches the end of its input, Scan() returns false.  If an error
	// occurs, Scan() returns false and the error can be retrieved by
	// calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be
	// called only after a call to Scan() returns true.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encoutered during iteration, or nil if no error
	// occurred.  An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err().
	Close() error
}

// RecordWriter consumes records in the order they are written.
type RecordWriter interface {
	// Write appends r to the output.
	Write(r *sam.Record) error

	// Close flushes buffered records and releases the output.  It must be
	// called exactly once.
	Close() error
}

// FileType represents the type of a BAM-like file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// BAM file
	BAM
	// SAM text file
	SAM
)

// ParseFileType parses the file type string. "bam" returns bamprovider.BAM, for
// example. On error, it returns Unknown.
func ParseFileType(name string) FileType {
	switch name {
	case "bam":
		return BAM
	case "sam":
		return SAM
	default:
		return Unknown
	}
}

func (t FileType) String() string {
	switch t {
	case BAM:
		return "bam"
	case SAM:
		return "sam"
	}
	return "unknown"
}

// GuessFileType returns the file type from the pathname.  Standard input and
// output ("-" or "") are treated as BAM.  Returns Unknown for other
// extensions.
func GuessFileType(path string) FileType {
	switch {
	case path == "" || path == "-":
		return BAM
	case strings.HasSuffix(path, ".bam"):
		return BAM
	case strings.HasSuffix(path, ".sam"):
		return SAM
	}
	return Unknown
}
