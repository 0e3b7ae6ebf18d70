package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Patterns for the cascade stages. Input is lowercased and whitespace
// collapsed before matching.
var (
	simpleHourPattern = regexp.MustCompile(`^(\d{1,2})\s*(am|pm)$`)
	clockPattern      = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*(am|pm))?$`)
	relativePattern   = regexp.MustCompile(`^in\s+(\d+)\s*(hour|hr|minute|min)s?$`)
	monthDayPattern   = regexp.MustCompile(`^(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
)

// monthNumbers maps lowercase month names to their calendar number.
var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// rolloverGap is the same-day threshold: a time-of-day that already passed
// today rolls to tomorrow only when it is further in the past than this.
// "3pm" asked at 2:55pm still means today; "1am" asked at 2pm means
// tomorrow.
const rolloverGap = 12 * time.Hour

// Parser evaluates the pattern stages of the cascade. It is pure: every
// stage derives its result from the normalized input and the injected
// clock, so a Parser is safe for concurrent use.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

// NewParser creates a parser that resolves expressions in the given zone.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{loc: loc, now: time.Now}
}

// stage is one step of the cascade. A stage either declines the input
// (matched false), resolves it, or claims it and fails on an out-of-range
// component (matched true with error).
type stage struct {
	name string
	fn   func(p *Parser, input string, now time.Time) (time.Time, bool, error)
}

// stages are tried strictly in order; the first structural match owns the
// result and later stages are not consulted.
var stages = []stage{
	{"now", (*Parser).stageNow},
	{"simple-hour", (*Parser).stageSimpleHour},
	{"clock", (*Parser).stageClock},
	{"relative", (*Parser).stageRelative},
	{"month-day", (*Parser).stageMonthDay},
}

// ParseStages runs the pattern stages of the cascade. It reports matched
// false when no stage recognized the input, in which case the caller may
// consult the natural-language fallback.
func (p *Parser) ParseStages(input string) (time.Time, bool, error) {
	now := p.now().In(p.loc)
	for _, s := range stages {
		if t, matched, err := s.fn(p, input, now); matched {
			return t, true, err
		}
	}
	return time.Time{}, false, nil
}

func (p *Parser) stageNow(input string, now time.Time) (time.Time, bool, error) {
	if input != "now" {
		return time.Time{}, false, nil
	}
	return now, true, nil
}

// stageSimpleHour handles bare hour forms like "3pm" and "11am".
func (p *Parser) stageSimpleHour(input string, now time.Time) (time.Time, bool, error) {
	m := simpleHourPattern.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}, false, nil
	}

	hour, _ := strconv.Atoi(m[1])
	hour = meridianHour(hour, m[2])
	if hour > 23 {
		return time.Time{}, true, ErrUnparseable
	}

	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, p.loc)
	return p.rollover(t, now), true, nil
}

// stageClock handles "15:00", "3:05 pm" and similar clock forms.
func (p *Parser) stageClock(input string, now time.Time) (time.Time, bool, error) {
	m := clockPattern.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}, false, nil
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if m[3] != "" {
		hour = meridianHour(hour, m[3])
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, true, ErrUnparseable
	}

	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, p.loc)
	return p.rollover(t, now), true, nil
}

// stageRelative handles offsets like "in 2 hours" and "in 45 min".
func (p *Parser) stageRelative(input string, now time.Time) (time.Time, bool, error) {
	m := relativePattern.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}, false, nil
	}

	amount, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "hour", "hr":
		return now.Add(time.Duration(amount) * time.Hour), true, nil
	case "minute", "min":
		return now.Add(time.Duration(amount) * time.Minute), true, nil
	}
	return time.Time{}, false, nil
}

// stageMonthDay handles "march 30", optionally followed by a clock or
// simple-hour expression for the time-of-day. Without an explicit year the
// date lands in the current year, rolling to the next year when the
// (month, day) already passed.
func (p *Parser) stageMonthDay(input string, now time.Time) (time.Time, bool, error) {
	m := monthDayPattern.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}, false, nil
	}

	month := monthNumbers[m[1]]
	day, _ := strconv.Atoi(m[2])

	// Time-of-day defaults to midnight unless the remainder carries one.
	hour, minute := 0, 0
	rest := strings.TrimSpace(input[len(m[0]):])
	if cm := clockPattern.FindStringSubmatch(rest); cm != nil {
		hour, _ = strconv.Atoi(cm[1])
		minute, _ = strconv.Atoi(cm[2])
		if cm[3] != "" {
			hour = meridianHour(hour, cm[3])
		}
	} else if sm := simpleHourPattern.FindStringSubmatch(rest); sm != nil {
		hour, _ = strconv.Atoi(sm[1])
		hour = meridianHour(hour, sm[2])
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, true, ErrUnparseable
	}

	year := now.Year()
	if month < now.Month() || (month == now.Month() && day < now.Day()) {
		year++
	}

	t := time.Date(year, month, day, hour, minute, 0, 0, p.loc)
	// time.Date normalizes overflow (june 31 -> july 1); fail closed instead.
	if t.Month() != month || t.Day() != day {
		return time.Time{}, true, ErrUnparseable
	}
	return t, true, nil
}

// rollover applies the same-day policy: a computed time-of-day that lies
// more than rolloverGap in the past refers to tomorrow.
func (p *Parser) rollover(t, now time.Time) time.Time {
	if t.Before(now) && now.Sub(t) > rolloverGap {
		return t.AddDate(0, 0, 1)
	}
	return t
}

// meridianHour converts a 12-hour clock reading to 24-hour form.
func meridianHour(hour int, meridian string) int {
	switch meridian {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

// normalize collapses whitespace and lowercases the raw expression.
func normalize(input string) string {
	return strings.ToLower(strings.Join(strings.Fields(input), " "))
}
