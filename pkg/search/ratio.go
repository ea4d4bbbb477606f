package search

import "strings"

// Ratio returns the fraction of leading positions, up to the shorter string's
// length, at which a and b hold the same rune ignoring case. The result is in
// [0, 1]; an empty input scores 0.
func Ratio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	n := min(len(ra), len(rb))
	if n == 0 {
		return 0
	}

	same := 0
	for i := 0; i < n; i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(n)
}

// Score pairs every candidate with its ratio against query and keeps those
// scoring above zero, in candidate order.
func Score(query string, candidates []Candidate) []Match {
	var matches []Match
	for _, c := range candidates {
		if r := Ratio(query, c.ModuleName); r > 0 {
			matches = append(matches, Match{Candidate: c, Ratio: r})
		}
	}
	return matches
}
