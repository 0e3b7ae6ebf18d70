// Package zonematch resolves loosely typed timezone tokens ("CST", "est",
// "new york") into canonical IANA zone identifiers.
//
// Resolution is tiered: exact alias lookup, exact catalog lookup, then
// similarity-scored matching against the alias table and the full catalog.
// The alias table maps ambiguous abbreviations to a single region by
// convention (e.g. "CST" is America/Chicago, not Asia/Shanghai); these
// mappings are policy and must not be changed silently.
package zonematch

import "context"

// ZoneService defines the zone resolution interface.
type ZoneService interface {
	// Resolve maps a free-text timezone token to a canonical IANA zone
	// identifier. It never fails: an unmatched input yields an empty
	// Matched field and up to three ranked suggestions.
	Resolve(ctx context.Context, input string) Resolution

	// Suggest returns up to limit autocomplete candidates for a partial
	// token, alias abbreviations before catalog identifiers. Weak matches
	// are dropped rather than padded.
	Suggest(ctx context.Context, input string, limit int) []string
}

// Resolution is the outcome of a zone lookup.
type Resolution struct {
	// Matched is the canonical IANA identifier, or "" when nothing scored
	// above the match threshold.
	Matched string `json:"matched"`
	// Suggestions are candidate identifiers ordered best to worst.
	Suggestions []string `json:"suggestions"`
}

// OK reports whether the lookup produced a match.
func (r Resolution) OK() bool {
	return r.Matched != ""
}
