package barcode

import (
	"fmt"
	"math"
	"runtime"
	"sort"
)

const (
	// DefaultAlphabet is the nucleotide alphabet used for substitutions
	// and insertions.
	DefaultAlphabet = "ACGT"

	// AlphabetWithN adds the N wildcard to DefaultAlphabet.
	AlphabetWithN = "ACGTN"

	// DefaultMaxNeighborhoodSize is the default ceiling on the estimated
	// size of one neighborhood.
	DefaultMaxNeighborhoodSize = 1 << 22
)

// Opts configures neighborhood generation and VariantMap construction.
type Opts struct {
	// MaxEdits is the total edit budget.  Must be non-negative.
	MaxEdits int
	// MaxSubstitutions bounds the number of substitutions. A negative
	// value means MaxEdits.
	MaxSubstitutions int
	// MaxIndels bounds the number of insertions and deletions. A negative
	// value means MaxEdits.
	MaxIndels int
	// Alphabet is the set of bases used for substitutions and
	// insertions. Expected sequences must only use these bases.  If
	// empty, DefaultAlphabet is used.
	Alphabet string
	// MaxNeighborhoodSize is the ceiling on the estimated neighborhood
	// size of each expected sequence. Zero means
	// DefaultMaxNeighborhoodSize; a negative value disables the check.
	MaxNeighborhoodSize int
	// Parallelism is the number of goroutines used to generate
	// neighborhoods. Zero means runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the sub-budgets to follow MaxEdits.
var DefaultOpts = Opts{
	MaxSubstitutions: -1,
	MaxIndels:        -1,
	Alphabet:         DefaultAlphabet,
}

// NewOpts returns DefaultOpts with the given total edit budget.
func NewOpts(maxEdits int) Opts {
	opts := DefaultOpts
	opts.MaxEdits = maxEdits
	return opts
}

// budgets returns the effective substitution and indel budgets, each
// already capped by MaxEdits.
func (o Opts) budgets() (subs, indels int) {
	subs, indels = o.MaxSubstitutions, o.MaxIndels
	if subs < 0 || subs > o.MaxEdits {
		subs = o.MaxEdits
	}
	if indels < 0 || indels > o.MaxEdits {
		indels = o.MaxEdits
	}
	return subs, indels
}

func (o Opts) alphabet() string {
	if o.Alphabet == "" {
		return DefaultAlphabet
	}
	return o.Alphabet
}

func (o Opts) maxNeighborhoodSize() int {
	if o.MaxNeighborhoodSize == 0 {
		return DefaultMaxNeighborhoodSize
	}
	return o.MaxNeighborhoodSize
}

func (o Opts) parallelism() int {
	if o.Parallelism <= 0 {
		return runtime.NumCPU()
	}
	return o.Parallelism
}

func (o Opts) String() string {
	subs, indels := o.budgets()
	return fmt.Sprintf("edits=%d,subs=%d,indels=%d,alphabet=%s", o.MaxEdits, subs, indels, o.alphabet())
}

func validateOpts(opts Opts) error {
	if opts.MaxEdits < 0 {
		return fmt.Errorf("max edits must be non-negative, got %d", opts.MaxEdits)
	}
	alphabet := opts.alphabet()
	seen := map[byte]bool{}
	for i := 0; i < len(alphabet); i++ {
		if seen[alphabet[i]] {
			return fmt.Errorf("alphabet %s repeats base %c", alphabet, alphabet[i])
		}
		seen[alphabet[i]] = true
	}
	return nil
}

func validateSequence(seq, alphabet string) error {
	for i := 0; i < len(seq); i++ {
		if !containsByte(alphabet, seq[i]) {
			return &AlphabetError{Sequence: seq, Char: seq[i], Alphabet: alphabet}
		}
	}
	return nil
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}

// state is one node of the generation worklist.  subs is the remaining
// substitution budget while substitutions are still allowed, and -1 once
// the state has moved on to the indel phase.
type state struct {
	seq    string
	subs   int
	indels int
}

// generator enumerates neighborhoods.  States live in an arena and the
// worklist holds arena indices; seen ensures every state is expanded
// once.
type generator struct {
	alphabet string
	seen     map[state]struct{}
	arena    []state
	work     []int
	out      map[string]struct{}
}

func newGenerator(alphabet string) *generator {
	return &generator{
		alphabet: alphabet,
		seen:     make(map[state]struct{}),
		out:      make(map[string]struct{}),
	}
}

func (g *generator) push(s state) {
	if _, ok := g.seen[s]; ok {
		return
	}
	g.seen[s] = struct{}{}
	g.arena = append(g.arena, s)
	g.work = append(g.work, len(g.arena)-1)
	g.out[s.seq] = struct{}{}
}

func (g *generator) run() {
	buf := make([]byte, 0, 64)
	for len(g.work) > 0 {
		s := g.arena[g.work[len(g.work)-1]]
		g.work = g.work[:len(g.work)-1]

		if s.subs >= 0 {
			// Substitutions come first; the indel phase may start from any
			// Hamming neighbor.
			g.push(state{seq: s.seq, subs: -1, indels: s.indels})
			if s.subs == 0 {
				continue
			}
			for pos := 0; pos < len(s.seq); pos++ {
				for k := 0; k < len(g.alphabet); k++ {
					c := g.alphabet[k]
					if c == s.seq[pos] {
						continue
					}
					buf = append(buf[:0], s.seq...)
					buf[pos] = c
					g.push(state{seq: string(buf), subs: s.subs - 1, indels: s.indels})
				}
			}
			continue
		}

		if s.indels == 0 {
			continue
		}
		for pos := 0; pos <= len(s.seq); pos++ {
			for k := 0; k < len(g.alphabet); k++ {
				buf = append(buf[:0], s.seq[:pos]...)
				buf = append(buf, g.alphabet[k])
				buf = append(buf, s.seq[pos:]...)
				g.push(state{seq: string(buf), subs: -1, indels: s.indels - 1})
			}
		}
		for pos := 0; pos < len(s.seq); pos++ {
			g.push(state{seq: s.seq[:pos] + s.seq[pos+1:], subs: -1, indels: s.indels - 1})
		}
	}
}

func (g *generator) sorted() []string {
	r := make([]string, 0, len(g.out))
	for s := range g.out {
		r = append(r, s)
	}
	sort.Strings(r)
	return r
}

// HammingNeighbors returns, in sorted order, every string of the same
// length as seq within n substitutions of seq, including seq itself.
func HammingNeighbors(seq string, n int, alphabet string) []string {
	g := newGenerator(alphabet)
	g.push(state{seq: seq, subs: n, indels: 0})
	g.run()
	return g.sorted()
}

// IndelNeighbors returns, in sorted order, every string reachable from seq
// with at most n single-base insertions or deletions, including seq
// itself.
func IndelNeighbors(seq string, n int, alphabet string) []string {
	g := newGenerator(alphabet)
	g.push(state{seq: seq, subs: -1, indels: n})
	g.run()
	return g.sorted()
}

// Neighborhood returns the sorted set of strings derivable from seq within
// the budgets in opts.
func Neighborhood(seq string, opts Opts) ([]string, error) {
	if err := validateOpts(opts); err != nil {
		return nil, err
	}
	if err := checkSequence(seq, opts); err != nil {
		return nil, err
	}
	return neighborhood(seq, opts), nil
}

// checkSequence validates the bases of seq and the estimated size of its
// neighborhood.
func checkSequence(seq string, opts Opts) error {
	if err := validateSequence(seq, opts.alphabet()); err != nil {
		return err
	}
	if limit := opts.maxNeighborhoodSize(); limit > 0 {
		if est := EstimateNeighborhoodSize(len(seq), opts); est > uint64(limit) {
			return &BudgetError{Sequence: seq, Estimate: est, Limit: limit}
		}
	}
	return nil
}

func neighborhood(seq string, opts Opts) []string {
	subs, indels := opts.budgets()
	g := newGenerator(opts.alphabet())
	for i := 0; i <= indels; i++ {
		j := opts.MaxEdits - i
		if subs < j {
			j = subs
		}
		g.push(state{seq: seq, subs: j, indels: i})
	}
	g.run()
	return g.sorted()
}

// EstimateNeighborhoodSize returns an upper bound on the number of
// distinct strings in the neighborhood of a sequence of the given length.
// The bound saturates at math.MaxUint64.
func EstimateNeighborhoodSize(length int, opts Opts) uint64 {
	subs, indels := opts.budgets()
	a := uint64(len(opts.alphabet()))
	total := uint64(0)
	for i := 0; i <= indels; i++ {
		j := opts.MaxEdits - i
		if subs < j {
			j = subs
		}
		// Hamming ball: sum_k C(length, k) * (a-1)^k.
		ball := uint64(0)
		term := uint64(1)
		for k := 0; k <= j && k <= length; k++ {
			if k > 0 {
				if term != math.MaxUint64 {
					term = satMul(term, uint64(length-k+1))
				}
				if term != math.MaxUint64 {
					term /= uint64(k)
				}
				term = satMul(term, a-1)
			}
			ball = satAdd(ball, term)
		}
		// Strings produced by up to i indels: each step on a string of
		// length l has at most (l+1)*a insertions and l deletions.
		reach := uint64(1)
		paths := uint64(1)
		for k := 0; k < i; k++ {
			l := uint64(length + k)
			paths = satMul(paths, (l+1)*a+l)
			reach = satAdd(reach, paths)
		}
		total = satAdd(total, satMul(ball, reach))
	}
	return total
}

func satAdd(x, y uint64) uint64 {
	if x > math.MaxUint64-y {
		return math.MaxUint64
	}
	return x + y
}

func satMul(x, y uint64) uint64 {
	if x != 0 && y > math.MaxUint64/x {
		return math.MaxUint64
	}
	return x * y
}
