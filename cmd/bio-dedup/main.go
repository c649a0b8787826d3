package main

// bio-dedup removes coordinate duplicates from BAM or SAM streams, and
// builds the barcode variant tables used to label reads.  See
// github.com/grailbio/readdedup/dedup/doc.go.

import "github.com/grailbio/readdedup/cmd/bio-dedup/cmd"

func main() {
	cmd.Run()
}
