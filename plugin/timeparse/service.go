package timeparse

import (
	"context"
	"log/slog"
	"time"

	"github.com/olebedev/when"
	"golang.org/x/sync/semaphore"
)

// maxFallbackWorkers bounds concurrent natural-language parses; the rule
// engine walks the whole input and is the expensive part of the cascade.
const maxFallbackWorkers = 4

const (
	cacheCapacity = 1000
	cacheLifetime = time.Hour
)

// Service implements ParserService with the stage cascade, a bounded parse
// cache, and a gated natural-language fallback.
type Service struct {
	defaultLoc *time.Location
	natural    *when.Parser
	cache      *parseCache
	gate       *semaphore.Weighted
	now        func() time.Time
}

// NewService creates a time parsing service. The default timezone is used
// when a reference zone fails to load.
func NewService(defaultTimezone string) *Service {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Service{
		defaultLoc: loc,
		natural:    newNaturalParser(),
		cache:      newParseCache(cacheCapacity, cacheLifetime),
		gate:       semaphore.NewWeighted(maxFallbackWorkers),
		now:        time.Now,
	}
}

// Parse resolves a free-text time expression against the reference zone.
// Identical (text, zone) requests within the cache lifetime return the
// instant computed at first resolution.
func (s *Service) Parse(ctx context.Context, input string, referenceZone string) (time.Time, error) {
	norm := normalize(input)
	if norm == "" {
		return time.Time{}, ErrUnparseable
	}

	loc, err := time.LoadLocation(referenceZone)
	if err != nil {
		loc = s.defaultLoc
	}

	key := norm + "|" + loc.String()
	if t, ok := s.cache.Get(key, s.now()); ok {
		return t, nil
	}

	parser := &Parser{loc: loc, now: s.now}
	t, err := s.resolve(ctx, parser, norm)
	if err != nil {
		return time.Time{}, err
	}

	s.cache.Set(key, t, s.now())
	return t, nil
}

// resolve runs the cascade. Any panic inside a stage or the fallback is
// recovered and reported as an unparseable input; a fault in one call must
// never take down an unrelated one.
func (s *Service) resolve(ctx context.Context, parser *Parser, norm string) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during time expression parse", "input", norm, "panic", r)
			t, err = time.Time{}, ErrUnparseable
		}
	}()

	t, matched, err := parser.ParseStages(norm)
	if matched {
		return t, err
	}

	// Only the fallback suspends the caller; the pattern stages above are
	// cheap enough to run inline.
	if err := s.gate.Acquire(ctx, 1); err != nil {
		slog.Warn("time parse abandoned before fallback", "input", norm, "error", err)
		return time.Time{}, ErrUnparseable
	}
	defer s.gate.Release(1)

	return parser.parseFallback(s.natural, norm, s.now().In(parser.loc))
}

// CacheLen reports the current number of cached resolutions.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// Ensure Service implements ParserService
var _ ParserService = (*Service)(nil)
