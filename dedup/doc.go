/*Package dedup removes duplicate reads from a BAM stream by alignment
  coordinates and an optional barcode.

  Each unit (a read in single-end mode, a read pair in paired-end mode) is
  assigned a Key: the reference id, the 0-based half-open span of the
  unit, and a Label derived from the read name.  The first unit seen for a
  key is written to the output; later units with the same key are
  dropped.  Every unit is counted, and the counts are reported as a
  tab-separated table sorted by reference order, start, end, and barcode.

  Paired-end input must be collated by name so that mates are adjacent.
  The span of a pair runs from the start of the forward mate to the end of
  the reverse mate, and must equal the absolute template length.  Pairs
  that violate this, or whose mates disagree on name or reference, abort
  the run with a *FormatError.  RemoveUnpaired and NewPairFilter drop reads
  without an adjacent mate.

  Barcodes are captured from the read name with a regular expression that
  has exactly one group, and then passed through a barcode.Resolver: by
  default they must be integers, but they can also be resolved against a
  set of expected barcodes with barcode.VariantMap or
  barcode.SnapResolver.
*/
package dedup
