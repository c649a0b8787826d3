// Package bamprovider provides streaming access to BAM and SAM files.
//
// An Iterator yields records in file order; StreamIterator reads a BAM or
// SAM file, or standard input, without an index.  A RecordWriter writes
// records back out in BAM or SAM format.
package bamprovider
