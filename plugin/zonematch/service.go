package zonematch

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/semaphore"
)

// maxFuzzyWorkers bounds concurrent fuzzy scans; scanning the full catalog
// is CPU-bound and must not starve command handling.
const maxFuzzyWorkers = 4

// Service implements ZoneService against an immutable Catalog.
type Service struct {
	catalog *Catalog
	gate    *semaphore.Weighted
}

// NewService creates a zone resolution service.
func NewService(catalog *Catalog) *Service {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Service{
		catalog: catalog,
		gate:    semaphore.NewWeighted(maxFuzzyWorkers),
	}
}

// Resolve maps a free-text timezone token to a canonical zone identifier.
// Lookup tiers, first hit wins:
//
//  1. exact alias table match
//  2. exact catalog match (case-insensitive)
//  3. fuzzy alias match scoring >= 85
//  4. fuzzy catalog match; best hit >= 85 wins, the rest become suggestions
//
// Resolve never fails; a miss returns an empty Matched with up to three
// ranked suggestions.
func (s *Service) Resolve(ctx context.Context, input string) Resolution {
	upper := strings.ToUpper(strings.TrimSpace(input))
	if upper == "" {
		return Resolution{}
	}

	if zone, ok := s.catalog.Alias(upper); ok {
		return Resolution{Matched: zone}
	}
	if zone, ok := s.catalog.Canonical(upper); ok {
		return Resolution{Matched: zone}
	}

	// Fuzzy scanning is the expensive tier; run it under the worker gate so
	// a burst of lookups cannot monopolize the CPU.
	if err := s.gate.Acquire(ctx, 1); err != nil {
		slog.Warn("zone resolution abandoned before fuzzy match", "input", input, "error", err)
		return Resolution{}
	}
	defer s.gate.Release(1)

	return s.fuzzyResolve(upper)
}

func (s *Service) fuzzyResolve(upper string) (res Resolution) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during fuzzy zone match", "input", upper, "panic", r)
			res = Resolution{}
		}
	}()

	if best := bestMatches(upper, s.catalog.AliasNames(), 1); len(best) > 0 && best[0].score >= scoreCutoff {
		zone, _ := s.catalog.Alias(best[0].name)
		return Resolution{Matched: zone}
	}

	top := bestMatches(upper, s.catalog.Zones(), maxCandidates)
	if len(top) > 0 && top[0].score >= scoreCutoff {
		suggestions := make([]string, 0, len(top)-1)
		for _, c := range top[1:] {
			suggestions = append(suggestions, c.name)
		}
		return Resolution{Matched: top[0].name, Suggestions: suggestions}
	}

	suggestions := make([]string, 0, len(top))
	for _, c := range top {
		suggestions = append(suggestions, c.name)
	}
	return Resolution{Suggestions: suggestions}
}

// Suggest returns autocomplete candidates for a partially typed token.
// Aliases are scanned before catalog names so abbreviations surface first.
// Scores below suggestCutoff are dropped.
func (s *Service) Suggest(ctx context.Context, input string, limit int) []string {
	upper := strings.ToUpper(strings.TrimSpace(input))
	if upper == "" || limit <= 0 {
		return nil
	}

	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil
	}
	defer s.gate.Release(1)

	seen := make(map[string]struct{}, limit)
	out := make([]string, 0, limit)
	appendCandidates := func(cands []candidate) {
		for _, c := range cands {
			if len(out) >= limit {
				return
			}
			if c.score < suggestCutoff {
				continue
			}
			if _, ok := seen[c.name]; ok {
				continue
			}
			seen[c.name] = struct{}{}
			out = append(out, c.name)
		}
	}

	appendCandidates(bestMatches(upper, s.catalog.AliasNames(), maxCandidates))
	appendCandidates(bestMatches(upper, s.catalog.Zones(), maxCandidates))
	return out
}

// Ensure Service implements ZoneService
var _ ZoneService = (*Service)(nil)
