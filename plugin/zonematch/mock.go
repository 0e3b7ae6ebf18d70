package zonematch

import (
	"context"
	"strings"
	"time"
)

// MockZoneService is a mock implementation of ZoneService for testing.
// It resolves alias table entries and any identifier the host zoneinfo
// database can load, without fuzzy matching.
type MockZoneService struct {
	// Suggestions is returned verbatim on a miss.
	Suggestions []string
}

// NewMockZoneService creates a new MockZoneService.
func NewMockZoneService() *MockZoneService {
	return &MockZoneService{}
}

// Resolve maps aliases and loadable identifiers; everything else misses.
func (m *MockZoneService) Resolve(_ context.Context, input string) Resolution {
	upper := strings.ToUpper(strings.TrimSpace(input))
	if zone, ok := aliasTable[upper]; ok {
		return Resolution{Matched: zone}
	}
	trimmed := strings.TrimSpace(input)
	if _, err := time.LoadLocation(trimmed); err == nil && trimmed != "" {
		return Resolution{Matched: trimmed}
	}
	return Resolution{Suggestions: m.Suggestions}
}

// Suggest returns the configured suggestions, capped at limit.
func (m *MockZoneService) Suggest(_ context.Context, _ string, limit int) []string {
	if limit > len(m.Suggestions) {
		limit = len(m.Suggestions)
	}
	return m.Suggestions[:limit]
}

// Ensure MockZoneService implements ZoneService
var _ ZoneService = (*MockZoneService)(nil)
