package bot

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/whenbot/whenbot/plugin/zonematch"
	"github.com/whenbot/whenbot/store"
)

// ZoneEntry is one named timezone in a display list.
type ZoneEntry struct {
	Name     string
	Timezone string
}

// timezonePresets are the /set_display preset groups. Order matters for
// display, so these are slices rather than maps.
var timezonePresets = map[string][]ZoneEntry{
	"north_america": {
		{"🇺🇸 Eastern", "America/New_York"},
		{"🇺🇸 Central", "America/Chicago"},
		{"🇺🇸 Mountain", "America/Denver"},
		{"🇺🇸 Pacific", "America/Los_Angeles"},
		{"🇨🇦 Eastern", "America/Toronto"},
	},
	"europe": {
		{"🇬🇧 London", "Europe/London"},
		{"🇫🇷 Paris", "Europe/Paris"},
		{"🇩🇪 Berlin", "Europe/Berlin"},
		{"🇮🇹 Rome", "Europe/Rome"},
		{"🇪🇸 Madrid", "Europe/Madrid"},
	},
	"nordic": {
		{"🇳🇴 Oslo", "Europe/Oslo"},
		{"🇸🇪 Stockholm", "Europe/Stockholm"},
		{"🇫🇮 Helsinki", "Europe/Helsinki"},
		{"🇩🇰 Copenhagen", "Europe/Copenhagen"},
		{"🇮🇸 Reykjavik", "Atlantic/Reykjavik"},
	},
	"asia": {
		{"🇯🇵 Tokyo", "Asia/Tokyo"},
		{"🇰🇷 Seoul", "Asia/Seoul"},
		{"🇨🇳 Beijing", "Asia/Shanghai"},
		{"🇸🇬 Singapore", "Asia/Singapore"},
		{"🇮🇳 New Delhi", "Asia/Kolkata"},
	},
}

// defaultTimezones are shown when a guild has no display list of its own.
var defaultTimezones = []ZoneEntry{
	{"UTC", "UTC"},
	{"🇺🇸 Eastern", "America/New_York"},
	{"🇺🇸 Pacific", "America/Los_Angeles"},
	{"🇬🇧 London", "Europe/London"},
	{"🇩🇪 Berlin", "Europe/Berlin"},
	{"🇫🇮 Helsinki", "Europe/Helsinki"},
}

// CalendarTemplate describes a preset event shape.
type CalendarTemplate struct {
	TitlePrefix string
	Duration    time.Duration
	Description string
}

var calendarTemplates = map[string]CalendarTemplate{
	"gaming": {
		TitlePrefix: "🎮 Gaming: ",
		Duration:    3 * time.Hour,
		Description: "Gaming session organized via Discord",
	},
	"meeting": {
		TitlePrefix: "📅 Meeting: ",
		Duration:    time.Hour,
		Description: "Meeting scheduled via Discord",
	},
	"event": {
		TitlePrefix: "🎉 Event: ",
		Duration:    2 * time.Hour,
		Description: "Event scheduled via Discord",
	},
	"raid": {
		TitlePrefix: "⚔️ Raid: ",
		Duration:    4 * time.Hour,
		Description: "Raid scheduled via Discord",
	},
}

func calendarTemplate(name string) CalendarTemplate {
	if tpl, ok := calendarTemplates[name]; ok {
		return tpl
	}
	return calendarTemplates["event"]
}

// FormatTimestamp renders a Discord timestamp markup tag. An empty style
// produces the default format.
func FormatTimestamp(t time.Time, style string) string {
	if style == "" {
		return fmt.Sprintf("<t:%d>", t.Unix())
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// TimestampPreview lists the common timestamp styles for copy-paste.
func TimestampPreview(t time.Time) string {
	var b strings.Builder
	b.WriteString("⏰ **Timestamps will show as:**\n")
	fmt.Fprintf(&b, "**Standard**: %s\n", FormatTimestamp(t, ""))
	fmt.Fprintf(&b, "**Relative**: %s\n", FormatTimestamp(t, "R"))
	fmt.Fprintf(&b, "**Short Time**: %s\n", FormatTimestamp(t, "t"))
	fmt.Fprintf(&b, "**Long Format**: %s\n\n", FormatTimestamp(t, "F"))
	b.WriteString("**Copy the codes above to use them in your own messages!**")
	return b.String()
}

// GoogleCalendarLink builds a prefilled calendar event URL.
func GoogleCalendarLink(eventTime time.Time, title string, duration time.Duration, description string) string {
	start := eventTime.UTC().Format("20060102T150405Z")
	end := eventTime.Add(duration).UTC().Format("20060102T150405Z")

	return fmt.Sprintf(
		"https://calendar.google.com/calendar/render?action=TEMPLATE&text=%s&dates=%s/%s&details=%s",
		url.QueryEscape(title), start, end, url.QueryEscape(description),
	)
}

// calendarEmbed renders an event card with a prefilled calendar link.
func calendarEmbed(eventTime time.Time, title string, duration time.Duration, description string) *discordgo.MessageEmbed {
	link := GoogleCalendarLink(eventTime, title, duration, description)
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📅 When", Value: eventTime.Format("Monday, January 02, 2006"), Inline: true},
			{Name: "🕒 Time", Value: eventTime.Format("03:04 PM"), Inline: true},
			{Name: "⏱️ Duration", Value: fmt.Sprintf("%d minutes", int(duration.Minutes())), Inline: true},
			{Name: "🔗 Calendar Link", Value: fmt.Sprintf("[Add to Calendar](%s)", link), Inline: false},
		},
	}
}

// zoneAbbrOverrides pins abbreviations for zones whose tzdata names are
// numeric offsets or ambiguous. Standard abbreviation first, DST second.
var zoneAbbrOverrides = map[string][2]string{
	"Europe/London":       {"GMT", "BST"},
	"America/New_York":    {"EST", "EDT"},
	"America/Chicago":     {"CST", "CDT"},
	"America/Denver":      {"MST", "MDT"},
	"America/Los_Angeles": {"PST", "PDT"},
}

func zoneAbbreviation(t time.Time, zoneName string) string {
	if pair, ok := zoneAbbrOverrides[zoneName]; ok {
		if t.IsDST() {
			return pair[1]
		}
		return pair[0]
	}
	abbr, _ := t.Zone()
	return abbr
}

func clockEmoji(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf(":clock%d:", hour)
}

// FormatConversions renders one line per display zone for the given instant.
// Zones that fail to load are skipped.
func FormatConversions(t time.Time, zones []ZoneEntry) string {
	lines := make([]string, 0, len(zones))
	for _, entry := range zones {
		loc, err := time.LoadLocation(entry.Timezone)
		if err != nil {
			slog.Warn("skipping unloadable display zone", slog.String("timezone", entry.Timezone))
			continue
		}
		local := t.In(loc)
		lines = append(lines, fmt.Sprintf(
			"%s **%s**: %s %s (%s)",
			clockEmoji(local),
			entry.Name,
			local.Format("15:04"),
			zoneAbbreviation(local, entry.Timezone),
			local.Format("01/02"),
		))
	}
	return strings.Join(lines, "\n")
}

// guildZoneEntries converts stored guild rows into display entries.
func guildZoneEntries(list []*store.GuildTimezone) []ZoneEntry {
	entries := make([]ZoneEntry, 0, len(list))
	for _, gt := range list {
		entries = append(entries, ZoneEntry{Name: gt.DisplayName, Timezone: gt.Timezone})
	}
	return entries
}

// defaultDisplayName derives a readable label for /add_timezone when the
// caller does not supply one.
func defaultDisplayName(input, matched string) string {
	if _, ok := zonematch.AliasZone(input); ok {
		return "🌐 " + strings.ToUpper(strings.TrimSpace(input))
	}
	parts := strings.SplitN(matched, "/", 2)
	if len(parts) == 2 {
		city := parts[1]
		if idx := strings.LastIndex(city, "/"); idx >= 0 {
			city = city[idx+1:]
		}
		return parts[0] + " - " + strings.ReplaceAll(city, "_", " ")
	}
	return matched
}
