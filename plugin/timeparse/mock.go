package timeparse

import (
	"context"
	"time"
)

// MockParserService is a mock implementation of ParserService for testing.
// It understands "now", RFC3339 and bare "15:04" clock forms.
type MockParserService struct {
	// FixedNow can be set to use a fixed "now" for testing
	FixedNow *time.Time
}

// NewMockParserService creates a new MockParserService.
func NewMockParserService() *MockParserService {
	return &MockParserService{}
}

// Parse resolves a small set of fixed formats.
func (m *MockParserService) Parse(_ context.Context, input string, referenceZone string) (time.Time, error) {
	loc, err := time.LoadLocation(referenceZone)
	if err != nil {
		loc = time.UTC
	}
	now := m.now().In(loc)

	norm := normalize(input)
	if norm == "now" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("15:04", norm, loc); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, ErrUnparseable
}

// now returns the current time (or fixed time for testing).
func (m *MockParserService) now() time.Time {
	if m.FixedNow != nil {
		return *m.FixedNow
	}
	return time.Now()
}

// Ensure MockParserService implements ParserService
var _ ParserService = (*MockParserService)(nil)
