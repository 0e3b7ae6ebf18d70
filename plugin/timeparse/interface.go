// Package timeparse converts free-text time expressions ("3pm",
// "in 2 hours", "march 30", "tomorrow 15:00") into absolute instants.
//
// Parsing runs through an ordered cascade of pattern stages; the first
// stage that structurally matches the input owns the result. Inputs no
// stage understands fall through to a natural-language parser. Results are
// always timezone-aware.
package timeparse

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrUnparseable is returned when no cascade stage and no fallback parser
// produced a result, or when a structurally matching pattern carried an
// out-of-range component (minute 75, hour 99). The resolver fails closed;
// it never clamps or guesses.
var ErrUnparseable = errors.New("unparseable time expression")

// ParserService defines the time expression parsing interface.
type ParserService interface {
	// Parse resolves a free-text time expression against the reference
	// zone (an IANA identifier). The returned instant carries the
	// reference zone's location and converts losslessly to UTC.
	Parse(ctx context.Context, input string, referenceZone string) (time.Time, error)
}
