package zonematch

import (
	"log/slog"
	"strings"
	"time"
)

// Catalog holds the immutable set of resolvable zone identifiers together
// with the abbreviation alias table. It is built once at startup and shared
// read-only by every resolution.
type Catalog struct {
	zones   []string          // canonical identifiers in catalog order
	byUpper map[string]string // uppercased identifier -> canonical identifier
	aliases map[string]string // uppercased alias -> canonical identifier
	names   []string          // alias keys in stable order
}

// NewCatalog builds the catalog from the embedded tzdata identifier list.
// Identifiers the host zoneinfo database cannot load are dropped so the
// resolver can never hand out a zone that fails time.LoadLocation.
func NewCatalog() *Catalog {
	c := &Catalog{
		byUpper: make(map[string]string, len(catalogNames)),
		aliases: aliasTable,
		names:   aliasNames(),
	}
	for _, name := range catalogNames {
		if _, err := time.LoadLocation(name); err != nil {
			slog.Warn("dropping unloadable zone from catalog", "zone", name, "error", err)
			continue
		}
		c.zones = append(c.zones, name)
		c.byUpper[strings.ToUpper(name)] = name
	}
	return c
}

// Alias returns the canonical zone an abbreviation maps to.
func (c *Catalog) Alias(upper string) (string, bool) {
	zone, ok := c.aliases[upper]
	return zone, ok
}

// Canonical returns the canonical identifier for an uppercased zone name.
// Matching is case-insensitive so "america/chicago" resolves to
// "America/Chicago" exactly as the catalog spells it.
func (c *Catalog) Canonical(upper string) (string, bool) {
	zone, ok := c.byUpper[upper]
	return zone, ok
}

// Zones returns the catalog identifiers in their stable iteration order.
// The returned slice is shared and must not be mutated.
func (c *Catalog) Zones() []string {
	return c.zones
}

// AliasNames returns the alias keys in their stable iteration order.
// The returned slice is shared and must not be mutated.
func (c *Catalog) AliasNames() []string {
	return c.names
}

// Len returns the number of catalog identifiers.
func (c *Catalog) Len() int {
	return len(c.zones)
}
