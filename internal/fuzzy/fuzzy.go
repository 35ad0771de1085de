// Package fuzzy judges approximate string equality against a similarity
// threshold. Similarity is edit distance normalized by the longer string's
// length, so a one-letter typo in a seven-letter word scores ~0.86 while
// unrelated words score near zero.
package fuzzy

import "strings"

// DefaultThreshold is the minimum similarity for a candidate to count as a match.
const DefaultThreshold = 0.7

type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher with the given threshold in [0, 1].
// Values outside that range are clamped.
func NewMatcher(threshold float64) *Matcher {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	return &Matcher{threshold: threshold}
}

// Match reports whether candidate is similar enough to target.
// Both inputs are normalized before comparison, so the result is
// deterministic for a given (target, candidate, threshold) triple.
func (m *Matcher) Match(target, candidate string) bool {
	return Similarity(target, candidate) >= m.threshold
}

// Similarity returns a score in [0, 1]: 1 for equal normalized strings,
// falling by 1/max(len) per required edit.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return 1
	}

	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}

	return 1 - float64(distance(a, b))/float64(longest)
}

// Normalize trims surrounding whitespace and lowercases.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// distance is the Levenshtein edit distance with unit costs for insertion,
// deletion and substitution, computed over runes with a single-row table.
func distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	row := make([]int, m+1)
	for j := 0; j <= m; j++ {
		row[j] = j
	}

	for i := 1; i <= n; i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= m; j++ {
			cur := row[j]

			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min3(row[j]+1, row[j-1]+1, prev+cost)

			prev = cur
		}
	}

	return row[m]
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
