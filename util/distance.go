package util

import (
	"fmt"
)

// noAlignment marks an unreachable cell in an edit profile matrix.
const noAlignment = int(^uint(0) >> 2)

// Hamming returns the number of positions at which s1 and s2 differ.  The
// two strings must have the same length.
func Hamming(s1, s2 string) (int, error) {
	if len(s1) != len(s2) {
		return 0, fmt.Errorf("hamming distance requires equal lengths: '%s' (%d), '%s' (%d)",
			s1, len(s1), s2, len(s2))
	}
	d := 0
	for i := 0; i < len(s1); i++ {
		if s1[i] != s2[i] {
			d++
		}
	}
	return d, nil
}

// Levenshtein computes the number of insertions, deletions, and
// substitutions it takes to transform s1 into s2. Each step costs one
// distance point. s1 and s2 may have different lengths.
func Levenshtein(s1, s2 string) int {
	if len(s1) < len(s2) {
		s1, s2 = s2, s1
	}
	prev := make([]int, len(s2)+1)
	cur := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		cur[0] = i
		for j := 1; j <= len(s2); j++ {
			sub := prev[j-1]
			if s1[i-1] != s2[j-1] {
				sub++
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(s2)]
}

// profileMatrix is a (rows x cols x depth) cube stored in a flat slice.
// Cell (i, j, d) holds the minimum number of substitutions needed to align
// the first i bases of one string against the first j bases of the other
// using exactly d insertions and deletions.
type profileMatrix struct {
	nRow, nCol, depth int
	data              []int
}

func newProfileMatrix(n, m, depth int) profileMatrix {
	x := profileMatrix{
		nRow:  n,
		nCol:  m,
		depth: depth,
		data:  make([]int, n*m*depth),
	}
	for i := range x.data {
		x.data[i] = noAlignment
	}
	return x
}

func (x profileMatrix) idx(i, j, d int) int {
	return (i*x.nCol+j)*x.depth + d
}

// EditProfile returns a slice p of length maxIndels+1, where p[d] is the
// minimum number of substitutions over all alignments of s1 to s2 that use
// exactly d insertions and deletions combined.  p[d] is -1 when no such
// alignment exists (e.g. d is smaller than the length difference).
//
// s2 lies within s substitutions and i indels of s1 iff p[d] <= s for some
// d <= i.
func EditProfile(s1, s2 string, maxIndels int) []int {
	if maxIndels < 0 {
		maxIndels = 0
	}
	rows, cols, depth := len(s1)+1, len(s2)+1, maxIndels+1
	m := newProfileMatrix(rows, cols, depth)
	m.data[m.idx(0, 0, 0)] = 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			for d := 0; d < depth; d++ {
				best := m.data[m.idx(i, j, d)]
				if i > 0 && j > 0 {
					if v := m.data[m.idx(i-1, j-1, d)]; v != noAlignment {
						if s1[i-1] != s2[j-1] {
							v++
						}
						if v < best {
							best = v
						}
					}
				}
				if d > 0 && i > 0 {
					// Delete s1[i-1].
					if v := m.data[m.idx(i-1, j, d-1)]; v < best {
						best = v
					}
				}
				if d > 0 && j > 0 {
					// Insert s2[j-1].
					if v := m.data[m.idx(i, j-1, d-1)]; v < best {
						best = v
					}
				}
				m.data[m.idx(i, j, d)] = best
			}
		}
	}
	p := make([]int, depth)
	for d := range p {
		p[d] = m.data[m.idx(rows-1, cols-1, d)]
		if p[d] == noAlignment {
			p[d] = -1
		}
	}
	return p
}

// WithinBudget reports whether s2 can be derived from s1 using at most
// maxSubs substitutions and at most maxIndels insertions/deletions, with
// at most maxEdits operations in total.
func WithinBudget(s1, s2 string, maxEdits, maxSubs, maxIndels int) bool {
	if maxIndels > maxEdits {
		maxIndels = maxEdits
	}
	for d, subs := range EditProfile(s1, s2, maxIndels) {
		if subs < 0 {
			continue
		}
		if subs <= maxSubs && subs+d <= maxEdits {
			return true
		}
	}
	return false
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
