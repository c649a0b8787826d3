package barcode

import "github.com/grailbio/readdedup/util"

// Metric is a distance between two barcodes.  It returns an error when the
// distance is undefined for the pair.
type Metric func(s1, s2 string) (int, error)

var (
	// HammingMetric is undefined for sequences of unequal length.
	HammingMetric Metric = util.Hamming

	// LevenshteinMetric is defined for every pair.
	LevenshteinMetric Metric = func(s1, s2 string) (int, error) {
		return util.Levenshtein(s1, s2), nil
	}
)

// MinGroupDistance returns the smallest pairwise distance within seqs.  ok
// is false if seqs has fewer than two elements or if the metric is
// undefined for some pair.
func MinGroupDistance(seqs []string, metric Metric) (dist int, ok bool) {
	dist = -1
	for i := 0; i < len(seqs); i++ {
		for j := i + 1; j < len(seqs); j++ {
			d, err := metric(seqs[i], seqs[j])
			if err != nil {
				return 0, false
			}
			if dist < 0 || d < dist {
				dist = d
			}
		}
	}
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
