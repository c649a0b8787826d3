/*Package barcode resolves noisy barcode strings to a set of expected
  barcodes.

  For each expected barcode, the package enumerates its neighborhood:
  every string reachable with a bounded number of substitutions
  followed by a bounded number of insertions/deletions.  The union of
  the neighborhoods is inverted into a VariantMap, a lookup table from
  variant to expected barcode.  Construction fails if the neighborhoods
  of two expected barcodes intersect, because such a barcode design
  cannot be decoded unambiguously at the configured edit budget.

  Budgets:

  Three budgets apply.  MaxEdits bounds the total number of edits.
  MaxSubstitutions and MaxIndels bound each kind independently, and
  default to MaxEdits.  For every indel count i in [0, min(MaxIndels,
  MaxEdits)], the neighborhood contains each Hamming neighbor within
  min(MaxSubstitutions, MaxEdits-i) substitutions, followed by up to i
  indels.

  Generation:

  Neighborhoods are enumerated with an explicit worklist over
  (sequence, remaining substitutions, remaining indels) states.  Each
  distinct state is visited once.  Neighborhoods of different expected
  barcodes are generated in parallel, and then merged into a single map
  in one sequential pass that detects collisions.

  The neighborhood grows combinatorially in the barcode length, the
  alphabet size, and the budgets, so an upper bound of its size is
  checked against Opts.MaxNeighborhoodSize before any generation
  happens.
*/
package barcode
