package timeparse

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// dateIndicators is the vocabulary that marks an input as date-bearing.
// When the natural-language parser resolves an input containing none of
// these words to today's date, only its time-of-day is trusted and the date
// is re-anchored on today under the rollover policy.
var dateIndicators = []string{
	"tomorrow", "today", "yesterday", "next",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"week", "month", "tmr", "tmrw",
}

// newNaturalParser builds the natural-language fallback parser with English
// and common rule sets.
func newNaturalParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseFallback delegates to the natural-language parser, anchored on the
// current instant in the reference zone. Date-bearing inputs are honored as
// parsed; bare time-of-day phrases keep only their clock reading.
func (p *Parser) parseFallback(nl *when.Parser, input string, now time.Time) (time.Time, error) {
	result, err := nl.Parse(input, now)
	if err != nil || result == nil {
		return time.Time{}, ErrUnparseable
	}

	parsed := result.Time.In(p.loc)
	if hasDateIndicator(input) || !sameDate(parsed, now) {
		return parsed, nil
	}

	// The parser resolved a bare time-of-day phrase; discard its date and
	// re-anchor on today.
	t := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, p.loc)
	return p.rollover(t, now), nil
}

func hasDateIndicator(input string) bool {
	for _, word := range dateIndicators {
		if strings.Contains(input, word) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
