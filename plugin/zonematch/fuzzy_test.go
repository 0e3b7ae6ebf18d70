package zonematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "EST", "EST", 100},
		{"identical after normalization", "america/new_york", "America/New_York", 100},
		{"empty left", "", "EST", 0},
		{"empty right", "EST", "", 0},
		{"substring scores high", "NEW YORK", "America/New_York", 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, similarity(tt.a, tt.b))
		})
	}

	t.Run("symmetry", func(t *testing.T) {
		assert.Equal(t, similarity("Chicago", "America/Chicago"), similarity("America/Chicago", "Chicago"))
	})

	t.Run("one edit stays above cutoff", func(t *testing.T) {
		s := similarity("Amirica/Chicago", "America/Chicago")
		assert.GreaterOrEqual(t, s, scoreCutoff)
	})

	t.Run("unrelated scores low", func(t *testing.T) {
		s := similarity("xqzw9", "Australia/Sydney")
		assert.Less(t, s, scoreCutoff)
	})
}

func TestBestMatches(t *testing.T) {
	choices := []string{"America/New_York", "America/Chicago", "Asia/Tokyo", "Europe/London"}

	t.Run("ordered by score", func(t *testing.T) {
		top := bestMatches("chicago", choices, 3)
		assert.NotEmpty(t, top)
		assert.Equal(t, "America/Chicago", top[0].name)
		for i := 1; i < len(top); i++ {
			assert.LessOrEqual(t, top[i].score, top[i-1].score)
		}
	})

	t.Run("bounded result size", func(t *testing.T) {
		top := bestMatches("america", choices, 2)
		assert.LessOrEqual(t, len(top), 2)
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		tied := []string{"AAA/One", "AAA/Two"}
		top := bestMatches("AAA", tied, 2)
		assert.Len(t, top, 2)
		assert.Equal(t, "AAA/One", top[0].name)
		assert.Equal(t, "AAA/Two", top[1].name)
	})
}
