package zonematch

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// scoreCutoff is the minimum similarity score for an automatic match.
const scoreCutoff = 85

// maxCandidates bounds the number of fuzzy catalog candidates returned.
const maxCandidates = 3

// suggestCutoff is the looser threshold used for autocomplete suggestions.
const suggestCutoff = 60

// similarity scores how closely two zone tokens resemble each other on a
// 0-100 scale. Comparison is case-insensitive and treats '/' and '_' as
// word separators so that "new york" lines up with "America/New_York".
func similarity(a, b string) int {
	a = normalizeToken(a)
	b = normalizeToken(b)
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	// A full substring hit is a near-certain match regardless of how much
	// longer the candidate is, mirroring a partial-ratio comparison.
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return 90 + 10*len(shorter)/len(longer)
	}

	distance := levenshtein.ComputeDistance(a, b)
	if distance >= len(longer) {
		return 0
	}
	return (len(longer) - distance) * 100 / len(longer)
}

func normalizeToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return s
}

// candidate pairs a catalog identifier with its similarity score.
type candidate struct {
	name  string
	score int
}

// bestMatches returns the top-n candidates from choices ordered by score
// descending. Ties keep the iteration order of choices, so results are
// stable across calls.
func bestMatches(input string, choices []string, n int) []candidate {
	var top []candidate
	for _, choice := range choices {
		s := similarity(input, choice)
		if s == 0 {
			continue
		}
		pos := len(top)
		for pos > 0 && top[pos-1].score < s {
			pos--
		}
		if pos >= n {
			continue
		}
		top = append(top, candidate{})
		copy(top[pos+1:], top[pos:])
		top[pos] = candidate{name: choice, score: s}
		if len(top) > n {
			top = top[:n]
		}
	}
	return top
}
