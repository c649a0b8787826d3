package barcode

import (
	"os"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/readdedup/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allKmers returns a slice of all possible kmers with the given alphabet.
func allKmers(k int, alphabet string) []string {
	var fn func(partial string, length int) []string
	fn = func(partial string, length int) []string {
		if len(partial) == length {
			return []string{partial}
		}
		kmers := []string{}
		for i := 0; i < len(alphabet); i++ {
			kmers = append(kmers, fn(partial+alphabet[i:i+1], length)...)
		}
		return kmers
	}
	return fn("", k)
}

// bruteForce returns every string within the budgets of seq, by testing all
// strings whose length is reachable.
func bruteForce(seq string, opts Opts) map[string]bool {
	subs, indels := opts.budgets()
	r := map[string]bool{}
	for k := len(seq) - indels; k <= len(seq)+indels; k++ {
		if k < 0 {
			continue
		}
		for _, v := range allKmers(k, opts.alphabet()) {
			if util.WithinBudget(seq, v, opts.MaxEdits, subs, indels) {
				r[v] = true
			}
		}
	}
	return r
}

func TestAllKmers(t *testing.T) {
	kmers := allKmers(3, AlphabetWithN)
	uniq := map[string]bool{}
	for _, kmer := range kmers {
		for _, c := range kmer {
			assert.True(t, strings.ContainsRune(AlphabetWithN, c), "%s is not a valid kmer", kmer)
		}
		uniq[kmer] = true
	}
	assert.Equal(t, 125, len(uniq)) // 5^3 possible kmers including ACGTN.
}

func TestHammingNeighbors(t *testing.T) {
	nb := HammingNeighbors("ACGT", 1, DefaultAlphabet)
	assert.Equal(t, 13, len(nb)) // The sequence itself plus 4*3 substitutions.
	for _, v := range nb {
		d, err := util.Hamming("ACGT", v)
		require.NoError(t, err)
		assert.True(t, d <= 1, v)
	}
	assert.Equal(t, []string{"ACGT"}, HammingNeighbors("ACGT", 0, DefaultAlphabet))
	assert.Equal(t, 16, len(HammingNeighbors("AC", 2, DefaultAlphabet)))
}

func TestIndelNeighbors(t *testing.T) {
	for _, seq := range []string{"", "A", "AC", "ACGT"} {
		for n := 0; n <= 2; n++ {
			want := bruteForce(seq, Opts{MaxEdits: n, MaxSubstitutions: 0, MaxIndels: n})
			got := IndelNeighbors(seq, n, DefaultAlphabet)
			assert.Equal(t, len(want), len(got), "seq %s, n %d", seq, n)
			for _, v := range got {
				assert.True(t, want[v], "seq %s, n %d: unexpected %s", seq, n, v)
			}
		}
	}
}

func TestNeighborhoodSingleSubstitution(t *testing.T) {
	nb, err := Neighborhood("ACGT", Opts{MaxEdits: 1, MaxSubstitutions: 1, MaxIndels: 0})
	require.NoError(t, err)
	set := map[string]bool{}
	for _, v := range nb {
		set[v] = true
		assert.Equal(t, 4, len(v), "%s changes the length", v)
	}
	for _, v := range []string{"ACGT", "ACGA", "ACGC", "ACGG", "TCGT", "AAGT", "ACTT"} {
		assert.True(t, set[v], v)
	}
	assert.Equal(t, 13, len(nb))
}

// TestNeighborhoodExhaustive compares the generated neighborhoods with an
// enumeration of every string of reachable length.
func TestNeighborhoodExhaustive(t *testing.T) {
	tests := []struct {
		seq                   string
		maxEdits, subs, indel int
		alphabet              string
	}{
		{"ACG", 1, -1, -1, ""},
		{"ACG", 2, -1, -1, ""},
		{"ACGT", 2, 1, 1, ""},
		{"ACGT", 2, 2, 0, ""},
		{"ACGT", 2, 0, 2, ""},
		{"GATT", 3, 1, 2, ""},
		{"AT", 2, -1, -1, AlphabetWithN},
		{"", 2, -1, -1, ""},
	}
	for _, test := range tests {
		opts := Opts{MaxEdits: test.maxEdits, MaxSubstitutions: test.subs, MaxIndels: test.indel, Alphabet: test.alphabet}
		got, err := Neighborhood(test.seq, opts)
		require.NoError(t, err)
		want := bruteForce(test.seq, opts)
		assert.Equal(t, len(want), len(got), "%s %v", test.seq, opts)
		for i, v := range got {
			assert.True(t, want[v], "%s %v: unexpected %s", test.seq, opts, v)
			if i > 0 {
				assert.True(t, got[i-1] < v, "neighborhood must be sorted and unique")
			}
		}
	}
}

func TestNeighborhoodErrors(t *testing.T) {
	_, err := Neighborhood("ACXT", NewOpts(1))
	require.Error(t, err)
	aerr, ok := err.(*AlphabetError)
	require.True(t, ok, "%v", err)
	assert.Equal(t, byte('X'), aerr.Char)

	_, err = Neighborhood("ACGT", NewOpts(-1))
	assert.Error(t, err)

	_, err = Neighborhood("ACGT", Opts{MaxEdits: 1, Alphabet: "ACGA"})
	assert.Error(t, err)

	opts := NewOpts(4)
	opts.MaxNeighborhoodSize = 1000
	_, err = Neighborhood("ACGTACGTACGT", opts)
	require.Error(t, err)
	berr, ok := err.(*BudgetError)
	require.True(t, ok, "%v", err)
	assert.True(t, berr.Estimate > 1000)
	assert.Equal(t, 1000, berr.Limit)
}

func TestEstimateNeighborhoodSize(t *testing.T) {
	for _, seq := range []string{"A", "ACG", "ACGTA"} {
		for edits := 0; edits <= 2; edits++ {
			opts := NewOpts(edits)
			nb, err := Neighborhood(seq, opts)
			require.NoError(t, err)
			assert.True(t, EstimateNeighborhoodSize(len(seq), opts) >= uint64(len(nb)),
				"estimate for %s with %d edits is below the actual size %d", seq, edits, len(nb))
		}
	}
	assert.Equal(t, uint64(13), EstimateNeighborhoodSize(4, Opts{MaxEdits: 1, MaxIndels: 0, MaxSubstitutions: 1}))
	opts := NewOpts(40)
	opts.MaxNeighborhoodSize = -1
	assert.Equal(t, ^uint64(0), EstimateNeighborhoodSize(40, opts))
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}
