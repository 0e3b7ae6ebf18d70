package timeparse

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

func fixedService(now time.Time) *Service {
	return &Service{
		defaultLoc: time.UTC,
		natural:    newNaturalParser(),
		cache:      newParseCache(cacheCapacity, cacheLifetime),
		gate:       semaphore.NewWeighted(maxFallbackWorkers),
		now:        func() time.Time { return now },
	}
}

func TestService_ParseNow(t *testing.T) {
	svc := NewService("UTC")
	ctx := context.Background()

	got, err := svc.Parse(ctx, "now", "America/Chicago")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got, 2*time.Second)
	assert.Equal(t, "America/Chicago", got.Location().String())
}

func TestService_ParseRelativeMatchesNow(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Helsinki")
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, loc)
	svc := fixedService(now)
	ctx := context.Background()

	base, err := svc.Parse(ctx, "now", "Europe/Helsinki")
	require.NoError(t, err)

	got, err := svc.Parse(ctx, "in 2 hours", "Europe/Helsinki")
	require.NoError(t, err)
	assert.Equal(t, base.Add(2*time.Hour), got)
}

func TestService_ParseFallback(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, loc)
	svc := fixedService(now)
	ctx := context.Background()

	t.Run("date-bearing input keeps parsed date", func(t *testing.T) {
		got, err := svc.Parse(ctx, "tomorrow at 3pm", "America/Chicago")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-11 15:00", got.In(loc).Format("2006-01-02 15:04"))
	})

	t.Run("unparseable input fails without panicking", func(t *testing.T) {
		_, err := svc.Parse(ctx, "not a time", "America/Chicago")
		assert.ErrorIs(t, err, ErrUnparseable)
	})
}

func TestService_ParseEmptyInput(t *testing.T) {
	svc := NewService("UTC")
	_, err := svc.Parse(context.Background(), "   ", "UTC")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestService_ParseMalformedComponent(t *testing.T) {
	svc := NewService("UTC")
	_, err := svc.Parse(context.Background(), "12:75", "UTC")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestService_ParseInvalidZoneFallsBackToDefault(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	svc := fixedService(now)

	got, err := svc.Parse(context.Background(), "3pm", "Not/AZone")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
}

func TestService_CacheIdempotence(t *testing.T) {
	// Two rapid identical requests must return the same instant even for
	// "now"-relative text that would otherwise drift between calls.
	svc := NewService("UTC")
	ctx := context.Background()

	first, err := svc.Parse(ctx, "in 30 minutes", "UTC")
	require.NoError(t, err)
	second, err := svc.Parse(ctx, "in 30 minutes", "UTC")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, svc.CacheLen())
}

func TestService_CacheKeyIncludesZone(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	svc := fixedService(now)
	ctx := context.Background()

	chicago, err := svc.Parse(ctx, "3pm", "America/Chicago")
	require.NoError(t, err)
	tokyo, err := svc.Parse(ctx, "3pm", "Asia/Tokyo")
	require.NoError(t, err)

	assert.False(t, chicago.Equal(tokyo))
	assert.Equal(t, 2, svc.CacheLen())
}

func TestService_FailedParsesAreNotCached(t *testing.T) {
	svc := NewService("UTC")
	ctx := context.Background()

	_, err := svc.Parse(ctx, "not a time", "UTC")
	require.Error(t, err)
	assert.Equal(t, 0, svc.CacheLen())
}

func TestService_ParseRollover(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")

	t.Run("near-term past means today", func(t *testing.T) {
		svc := fixedService(time.Date(2026, 3, 10, 14, 55, 0, 0, loc))
		got, err := svc.Parse(context.Background(), "3pm", "America/Chicago")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-10 15:00", got.In(loc).Format("2006-01-02 15:04"))
	})

	t.Run("distant past means tomorrow", func(t *testing.T) {
		svc := fixedService(time.Date(2026, 3, 10, 2, 0, 0, 0, loc))
		got, err := svc.Parse(context.Background(), "1am", "America/Chicago")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-11 01:00", got.In(loc).Format("2006-01-02 15:04"))
	})
}

func TestService_ConcurrentParseAndEviction(t *testing.T) {
	// A deliberately tiny cache keeps concurrent parses churning through
	// insertion, refresh, sweep and eviction at once. Every goroutine must
	// still observe the correct instant for its own expression.
	loc, _ := time.LoadLocation("America/Chicago")
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	svc := &Service{
		defaultLoc: time.UTC,
		natural:    newNaturalParser(),
		cache:      newParseCache(4, cacheLifetime),
		gate:       semaphore.NewWeighted(maxFallbackWorkers),
		now:        func() time.Time { return now },
	}
	ctx := context.Background()

	inputs := []struct {
		text string
		want string
	}{
		{"3pm", "2026-03-10 15:00"},
		{"10:30", "2026-03-10 10:30"},
		{"in 2 hours", "2026-03-10 11:00"},
		{"in 45 min", "2026-03-10 09:45"},
		{"march 30", "2026-03-30 00:00"},
		{"december 24 18:30", "2026-12-24 18:30"},
	}

	const workers = 8
	const rounds = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				in := inputs[(offset+r)%len(inputs)]
				got, err := svc.Parse(ctx, in.text, "America/Chicago")
				if err != nil {
					errs <- fmt.Errorf("%q: %v", in.text, err)
					return
				}
				if formatted := got.In(loc).Format("2006-01-02 15:04"); formatted != in.want {
					errs <- fmt.Errorf("%q: got %s, want %s", in.text, formatted, in.want)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.LessOrEqual(t, svc.CacheLen(), 4)
}
