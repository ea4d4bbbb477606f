package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortResults orders results in place: ratio descending, then module name
// length descending, then module name ascending using English collation.
// Names that collate equal fall back to byte order and then repository path.
func SortResults(results []ScoredResult) {
	// A Collator is not safe for concurrent use.
	col := collate.New(language.English)

	sort.SliceStable(results, func(i, j int) bool {
		return less(col, &results[i], &results[j])
	})
}

func less(col *collate.Collator, a, b *ScoredResult) bool {
	if a.Ratio != b.Ratio {
		return a.Ratio > b.Ratio
	}

	la, lb := utf8.RuneCountInString(a.Module), utf8.RuneCountInString(b.Module)
	if la != lb {
		return la > lb
	}

	if c := col.CompareString(a.Module, b.Module); c != 0 {
		return c < 0
	}
	if c := strings.Compare(a.Module, b.Module); c != 0 {
		return c < 0
	}
	return a.Repository < b.Repository
}
