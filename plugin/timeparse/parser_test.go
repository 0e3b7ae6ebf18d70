package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedParser(t *testing.T, zone string, now time.Time) *Parser {
	t.Helper()
	loc, err := time.LoadLocation(zone)
	require.NoError(t, err)
	return &Parser{loc: loc, now: func() time.Time { return now.In(loc) }}
}

func TestParser_SimpleHour(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")

	tests := []struct {
		name  string
		now   time.Time
		input string
		want  string // "2006-01-02 15:04"
	}{
		{"near-term past stays today", time.Date(2026, 3, 10, 14, 55, 0, 0, loc), "3pm", "2026-03-10 15:00"},
		{"future today", time.Date(2026, 3, 10, 9, 0, 0, 0, loc), "3pm", "2026-03-10 15:00"},
		{"gap over 12h rolls to tomorrow", time.Date(2026, 3, 10, 2, 0, 0, 0, loc), "1am", "2026-03-11 01:00"},
		{"gap of exactly 12h stays today", time.Date(2026, 3, 10, 22, 0, 0, 0, loc), "10am", "2026-03-10 10:00"},
		{"12am is midnight", time.Date(2026, 3, 10, 8, 0, 0, 0, loc), "12am", "2026-03-10 00:00"},
		{"12pm is noon", time.Date(2026, 3, 10, 8, 0, 0, 0, loc), "12pm", "2026-03-10 12:00"},
		{"space before meridian", time.Date(2026, 3, 10, 9, 0, 0, 0, loc), "3 pm", "2026-03-10 15:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Parser{loc: loc, now: func() time.Time { return tt.now }}
			got, matched, err := p.ParseStages(tt.input)
			require.True(t, matched)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02 15:04"))
			assert.Equal(t, loc, got.Location())
		})
	}
}

func TestParser_Clock(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 3, 10, 14, 55, 0, 0, loc)
	p := &Parser{loc: loc, now: func() time.Time { return now }}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"24h clock", "15:00", "2026-03-10 15:00"},
		{"single digit hour", "9:30", "2026-03-10 09:30"}, // 5h25m in the past, still today
		{"pm suffix", "3:05pm", "2026-03-10 15:05"},
		{"am suffix with space", "11:45 am", "2026-03-10 11:45"},
		{"12:30am", "12:30am", "2026-03-11 00:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched, err := p.ParseStages(tt.input)
			require.True(t, matched)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02 15:04"))
		})
	}
}

func TestParser_ClockRejectsOutOfRange(t *testing.T) {
	p := fixedParser(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	tests := []string{"25:00", "12:75", "99:99"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, matched, err := p.ParseStages(input)
			// The pattern matched structurally, so the stage owns the
			// result and fails closed rather than clamping.
			assert.True(t, matched)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestParser_Relative(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, loc)
	p := &Parser{loc: loc, now: func() time.Time { return now }}

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"hours", "in 2 hours", now.Add(2 * time.Hour)},
		{"single hour", "in 1 hour", now.Add(time.Hour)},
		{"hr abbreviation", "in 3 hrs", now.Add(3 * time.Hour)},
		{"minutes", "in 45 minutes", now.Add(45 * time.Minute)},
		{"min abbreviation", "in 5 min", now.Add(5 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched, err := p.ParseStages(tt.input)
			require.True(t, matched)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_MonthDay(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")

	tests := []struct {
		name  string
		now   time.Time
		input string
		want  string
	}{
		{"upcoming date stays this year", time.Date(2026, 1, 15, 10, 0, 0, 0, loc), "march 30", "2026-03-30 00:00"},
		{"past date rolls to next year", time.Date(2026, 6, 15, 10, 0, 0, 0, loc), "march 30", "2027-03-30 00:00"},
		{"same day stays", time.Date(2026, 3, 30, 10, 0, 0, 0, loc), "march 30", "2026-03-30 00:00"},
		{"with simple hour", time.Date(2026, 1, 15, 10, 0, 0, 0, loc), "march 30 3pm", "2026-03-30 15:00"},
		{"with clock", time.Date(2026, 1, 15, 10, 0, 0, 0, loc), "december 24 18:30", "2026-12-24 18:30"},
		{"ordinal suffix", time.Date(2026, 1, 15, 10, 0, 0, 0, loc), "march 30th", "2026-03-30 00:00"},
		{"past ordinal rolls to next year", time.Date(2026, 6, 15, 10, 0, 0, 0, loc), "march 30th", "2027-03-30 00:00"},
		{"ordinal with time", time.Date(2026, 1, 15, 10, 0, 0, 0, loc), "june 1st 3pm", "2026-06-01 15:00"},
		{"second ordinal form", time.Date(2026, 1, 15, 10, 0, 0, 0, loc), "june 2nd", "2026-06-02 00:00"},
		{"third ordinal form", time.Date(2026, 1, 15, 10, 0, 0, 0, loc), "june 3rd", "2026-06-03 00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Parser{loc: loc, now: func() time.Time { return tt.now }}
			got, matched, err := p.ParseStages(tt.input)
			require.True(t, matched)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02 15:04"))
		})
	}

	t.Run("nonexistent day fails closed", func(t *testing.T) {
		p := fixedParser(t, "UTC", time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
		_, matched, err := p.ParseStages("june 31")
		assert.True(t, matched)
		assert.ErrorIs(t, err, ErrUnparseable)
	})
}

func TestParser_UnmatchedFallsThrough(t *testing.T) {
	p := fixedParser(t, "UTC", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	for _, input := range []string{"tomorrow at 3pm", "next friday", "gibberish"} {
		t.Run(input, func(t *testing.T) {
			_, matched, _ := p.ParseStages(input)
			assert.False(t, matched)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "in 2 hours", normalize("  In   2  HOURS "))
	assert.Equal(t, "", normalize("   "))
	assert.Equal(t, "3pm", normalize("3PM"))
}
