package search

import "github.com/virtualritz/glyphana/internal/utils"

// Scorer computes normalized edit-distance similarity between a query
// term and a candidate name. It keeps its two DP rows between calls, so
// a single Scorer scoring a whole corpus allocates only when a longer
// candidate shows up. Not safe for concurrent use; the engine evaluates
// queries synchronously.
type Scorer struct {
	prev []int
	curr []int
}

// NewScorer returns a Scorer with warm row buffers.
func NewScorer() *Scorer {
	return &Scorer{
		prev: make([]int, 0, 64),
		curr: make([]int, 0, 64),
	}
}

// Score returns a similarity in [0,1]: 1 − editDistance/max(len), over
// Unicode scalar values, not bytes. An empty query or candidate scores 0;
// identical non-empty strings score 1.
func (s *Scorer) Score(query, candidate string, caseSensitive bool) float64 {
	if !caseSensitive {
		query = utils.FoldString(query)
		candidate = utils.FoldString(candidate)
	}
	a := []rune(query)
	b := []rune(candidate)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	dist := s.distance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	score := 1 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// distance is classic Levenshtein (insert, delete, substitute at cost 1)
// with rolling rows: memory stays O(min(len(a), len(b))).
func (s *Scorer) distance(a, b []rune) int {
	// Keep the shorter string on the row axis.
	if len(a) < len(b) {
		a, b = b, a
	}

	width := len(b) + 1
	if cap(s.prev) < width {
		s.prev = make([]int, width)
		s.curr = make([]int, width)
	}
	prev := s.prev[:width]
	curr := s.curr[:width]

	for j := 0; j < width; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// Score is a convenience for one-off comparisons.
func Score(query, candidate string, caseSensitive bool) float64 {
	return NewScorer().Score(query, candidate, caseSensitive)
}
