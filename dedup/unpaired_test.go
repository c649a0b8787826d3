package dedup

import (
	"context"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readdedup/encoding/bamprovider"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveUnpaired(t *testing.T) {
	tests := []struct {
		in      []string
		want    []string
		dropped int
	}{
		{nil, nil, 0},
		{[]string{"A"}, nil, 1},
		{[]string{"A", "A"}, []string{"A", "A"}, 0},
		{[]string{"A", "B", "B", "C"}, []string{"B", "B"}, 2},
		{[]string{"A", "A", "A", "B", "B"}, []string{"A", "A", "B", "B"}, 1},
		{[]string{"A", "B", "C", "C", "D", "D", "E"}, []string{"C", "C", "D", "D"}, 3},
	}
	for _, test := range tests {
		var recs []*sam.Record
		for _, name := range test.in {
			recs = append(recs, NewRecord(name, chr1, 0, r1F, 0, chr1, cigar0))
		}
		w := &bamprovider.FakeWriter{}
		stats, err := RemoveUnpaired(context.Background(), bamprovider.NewFakeIterator(recs), w)
		require.NoError(t, err)
		if test.want == nil {
			assert.Empty(t, w.Records, "%v", test.in)
		} else {
			assert.Equal(t, test.want, names(w.Records), "%v", test.in)
		}
		expect.EQ(t, stats.Kept, len(test.want))
		expect.EQ(t, stats.Dropped, test.dropped)
	}
}

// TestPairFilterFeedsDedup runs paired deduplication behind the filter, so
// stray unpaired reads do not break pairing.
func TestPairFilterFeedsDedup(t *testing.T) {
	recs := concat(
		[]*sam.Record{NewRecord("stray", chr1, 0, r1F, 0, chr1, cigar0)},
		NewPair("P1", chr1, 100, 200, false),
		NewPair("P2", chr1, 100, 200, true),
		[]*sam.Record{NewRecord("orphan", chr2, 0, r2R, 0, chr2, cigar0)},
		NewPair("P3", chr2, 10, 90, false),
	)
	d := New(true, nil)
	w := &bamprovider.FakeWriter{}
	iter := NewPairFilter(bamprovider.NewFakeIterator(recs))
	require.NoError(t, d.Process(context.Background(), iter, w))
	require.NoError(t, iter.Close())
	assert.Equal(t, []string{"P1", "P1", "P3", "P3"}, names(w.Records))

	// Without the filter the stray read breaks pairing.
	_, _, err := runDedup(t, true, nil, recs)
	_, ok := err.(*FormatError)
	assert.True(t, ok, "%v", err)
}
