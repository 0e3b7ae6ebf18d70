package zonematch

import (
	"sort"
	"strings"
)

// aliasTable maps common timezone abbreviations to canonical IANA
// identifiers. Several abbreviations are ambiguous ("CST" is also China
// Standard Time); the table pins each one to the region users of this bot
// most commonly mean. Changing a mapping changes user-visible behavior.
var aliasTable = map[string]string{
	// North America
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	// Europe
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	// Asia/Pacific
	"JST":  "Asia/Tokyo",
	"AEST": "Australia/Sydney",
	"AEDT": "Australia/Sydney",
}

// AliasZone reports the canonical zone for a known abbreviation. The lookup
// is case-insensitive.
func AliasZone(input string) (string, bool) {
	zone, ok := aliasTable[strings.ToUpper(strings.TrimSpace(input))]
	return zone, ok
}

// aliasNames returns the alias keys in a stable order for fuzzy scanning.
func aliasNames() []string {
	names := make([]string, 0, len(aliasTable))
	for name := range aliasTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
