package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/whenbot/whenbot/plugin/timeparse"
	"github.com/whenbot/whenbot/store"
)

const (
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
	colorBlue  = 0x3498DB
)

// handlerTimeout bounds a single command handler, including database access
// and fallback parsing.
const handlerTimeout = 10 * time.Second

type commandHandler func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger)

var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "timezone",
		Description: "Set your timezone for time conversions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "timezone",
				Description:  "Your timezone (e.g., 'EST', 'CST', 'America/Chicago')",
				Required:     true,
				Autocomplete: true,
			},
		},
	},
	{
		Name:        "event",
		Description: "Convert an event time to different time zones",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "time",
				Description: "Time to convert (e.g., '3pm', '15:00', 'in 2 hours')",
				Required:    true,
			},
		},
	},
	{
		Name:        "add_timezone",
		Description: "Add a timezone to the server's display (max 5)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "timezone",
				Description:  "Timezone to add (e.g., 'EST', 'America/Chicago')",
				Required:     true,
				Autocomplete: true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "display_name",
				Description: "Optional custom display name",
			},
		},
	},
	{
		Name:        "remove_timezone",
		Description: "Remove a timezone from the server's display",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "display_name",
				Description:  "Display name of timezone to remove",
				Required:     true,
				Autocomplete: true,
			},
		},
	},
	{
		Name:        "set_display",
		Description: "Set which timezones to display in time conversions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "preset",
				Description: "Choose a preset group of timezones",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "🌎 North America", Value: "north_america"},
					{Name: "🇪🇺 Europe", Value: "europe"},
					{Name: "❄️ Nordic", Value: "nordic"},
					{Name: "🌏 Asia", Value: "asia"},
				},
			},
		},
	},
	{
		Name:        "format_time",
		Description: "Get time in different formats with calendar link",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "time",
				Description: "Time to format (e.g., '3pm tomorrow', '15:00')",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "title",
				Description: "Event title",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "template",
				Description: "Event template for duration and formatting",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Gaming Session (3 hours)", Value: "gaming"},
					{Name: "Meeting (1 hour)", Value: "meeting"},
					{Name: "Event (2 hours)", Value: "event"},
					{Name: "Raid (4 hours)", Value: "raid"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "description",
				Description: "Optional event description",
			},
		},
	},
	{
		Name:        "timestamps",
		Description: "Get Discord timestamp formats for a time",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "time",
				Description: "Time to format (e.g., '3pm tomorrow', '15:00')",
				Required:    true,
			},
		},
	},
}

var commandHandlers = map[string]commandHandler{
	"timezone":        (*Bot).handleTimezone,
	"event":           (*Bot).handleEvent,
	"add_timezone":    (*Bot).handleAddTimezone,
	"remove_timezone": (*Bot).handleRemoveTimezone,
	"set_display":     (*Bot).handleSetDisplay,
	"format_time":     (*Bot).handleFormatTime,
	"timestamps":      (*Bot).handleTimestamps,
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

func suggestionLines(suggestions []string) string {
	lines := make([]string, 0, len(suggestions))
	for _, zone := range suggestions {
		lines = append(lines, fmt.Sprintf("• `%s` - %s", zone, strings.ReplaceAll(zone, "_", " ")))
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) handleTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) {
	ctx, cancel := handlerContext()
	defer cancel()

	input := stringOption(optionMap(i), "timezone")
	res := b.Zones.Resolve(ctx, input)
	if !res.OK() {
		if len(res.Suggestions) > 0 {
			respondEmbed(s, i, &discordgo.MessageEmbed{
				Title: "❌ Invalid Timezone",
				Description: fmt.Sprintf(
					"Could not find timezone: `%s`\n\n**Did you mean:**\n%s\n\n_Try using the autocomplete suggestions when typing!_",
					input, suggestionLines(res.Suggestions),
				),
				Color: colorRed,
			}, true)
			return
		}
		respondEphemeral(s, i, "❌ Could not set timezone. Please try again with a valid timezone.")
		return
	}

	if _, err := b.Store.UpsertUserTimezone(ctx, &store.UpsertUserTimezone{
		UserID:   interactionUserID(i),
		Timezone: res.Matched,
	}); err != nil {
		logger.Error("failed to store user timezone", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred while setting your timezone.")
		return
	}

	loc, err := time.LoadLocation(res.Matched)
	if err != nil {
		logger.Error("matched zone failed to load", slog.String("timezone", res.Matched), slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred while setting your timezone.")
		return
	}
	now := time.Now().In(loc)
	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "✅ Timezone Set",
		Description: fmt.Sprintf(
			"Your timezone has been set to `%s`\nCurrent time: `%s %s`",
			res.Matched, now.Format("03:04 PM"), zoneAbbreviation(now, res.Matched),
		),
		Color: colorGreen,
	}, true)
}

// requireUserTimezone loads the caller's stored preference and answers with
// a hint when it is missing.
func (b *Bot) requireUserTimezone(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) (string, bool) {
	userTz, err := b.Store.GetUserTimezone(ctx, interactionUserID(i))
	if err != nil {
		logger.Error("failed to load user timezone", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred. Please try again.")
		return "", false
	}
	if userTz == nil {
		respondEphemeral(s, i, "❌ Please set your timezone first using `/timezone`")
		return "", false
	}
	return userTz.Timezone, true
}

func (b *Bot) handleEvent(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) {
	ctx, cancel := handlerContext()
	defer cancel()

	userZone, ok := b.requireUserTimezone(ctx, s, i, logger)
	if !ok {
		return
	}

	input := stringOption(optionMap(i), "time")
	parsed, err := b.Parser.Parse(ctx, input, userZone)
	if err != nil {
		if errors.Is(err, timeparse.ErrUnparseable) {
			respondEphemeral(s, i,
				"❌ Could not understand that time format. Try something like:\n"+
					"• `3pm`\n• `15:00`\n• `in 2 hours`\n• `tomorrow 3pm`")
			return
		}
		logger.Error("failed to parse time", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred while converting the time.")
		return
	}

	zones, err := b.displayZones(ctx, i.GuildID)
	if err != nil {
		logger.Error("failed to load display zones", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred while converting the time.")
		return
	}

	loc, err := time.LoadLocation(userZone)
	if err != nil {
		logger.Error("stored zone failed to load", slog.String("timezone", userZone), slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred while converting the time.")
		return
	}
	local := parsed.In(loc)

	// The only non-ephemeral response: the conversion is meant to be shared.
	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "🌍 Time Conversion",
		Description: fmt.Sprintf(
			"**🕒 Time (%s)** → `%s %s`\n\n%s\n\nDiscord Timestamp: `%s`",
			userZone,
			local.Format("Jan 02, 03:04 PM"), zoneAbbreviation(local, userZone),
			FormatConversions(parsed, zones),
			FormatTimestamp(parsed, "F"),
		),
		Color:  colorBlue,
		Footer: &discordgo.MessageEmbedFooter{Text: "Requested by " + interactionUserName(i)},
	}, false)
}

// displayZones returns the guild's configured list, or the defaults when the
// command runs in a DM or the guild has no list.
func (b *Bot) displayZones(ctx context.Context, guildID string) ([]ZoneEntry, error) {
	if guildID == "" {
		return defaultTimezones, nil
	}
	list, err := b.Store.ListGuildTimezones(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return defaultTimezones, nil
	}
	return guildZoneEntries(list), nil
}

func (b *Bot) handleAddTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) {
	ctx, cancel := handlerContext()
	defer cancel()

	if i.GuildID == "" {
		respondEphemeral(s, i, "❌ This command can only be used in servers")
		return
	}

	opts := optionMap(i)
	input := stringOption(opts, "timezone")
	res := b.Zones.Resolve(ctx, input)
	if !res.OK() {
		respondEphemeral(s, i, "❌ Invalid timezone. Did you mean:\n"+suggestionLines(res.Suggestions))
		return
	}

	displayName := stringOption(opts, "display_name")
	if displayName == "" {
		displayName = defaultDisplayName(input, res.Matched)
	}

	_, err := b.Store.UpsertGuildTimezone(ctx, &store.UpsertGuildTimezone{
		GuildID:     i.GuildID,
		DisplayName: displayName,
		Timezone:    res.Matched,
	})
	if err != nil {
		if errors.Is(err, store.ErrGuildTimezoneLimit) {
			respondEphemeral(s, i, fmt.Sprintf("❌ This server already displays %d timezones. Remove one first with `/remove_timezone`.", store.MaxGuildTimezones))
			return
		}
		logger.Error("failed to add guild timezone", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred while adding the timezone.")
		return
	}

	preview, err := b.guildPreview(ctx, i.GuildID)
	if err != nil {
		logger.Error("failed to build display preview", slog.String("error", err.Error()))
	}
	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "✅ Timezone Added",
		Description: fmt.Sprintf("Added **%s** (`%s`)\n\nCurrent display:\n%s", displayName, res.Matched, preview),
		Color:       colorGreen,
	}, true)
}

func (b *Bot) handleRemoveTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) {
	ctx, cancel := handlerContext()
	defer cancel()

	if i.GuildID == "" {
		respondEphemeral(s, i, "❌ This command can only be used in servers")
		return
	}

	displayName := stringOption(optionMap(i), "display_name")
	if err := b.Store.DeleteGuildTimezone(ctx, i.GuildID, displayName); err != nil {
		logger.Error("failed to remove guild timezone", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ An error occurred while removing the timezone.")
		return
	}

	preview, err := b.guildPreview(ctx, i.GuildID)
	if err != nil {
		logger.Error("failed to build display preview", slog.String("error", err.Error()))
	}
	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "✅ Timezone Removed",
		Description: fmt.Sprintf("Removed **%s**\n\nCurrent display:\n%s", displayName, preview),
		Color:       colorGreen,
	}, true)
}

func (b *Bot) handleSetDisplay(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) {
	ctx, cancel := handlerContext()
	defer cancel()

	if i.GuildID == "" {
		respondEphemeral(s, i, "❌ This command can only be used in servers")
		return
	}

	preset := stringOption(optionMap(i), "preset")
	entries, ok := timezonePresets[preset]
	if !ok {
		respondEphemeral(s, i, "❌ Invalid preset selected")
		return
	}

	if err := b.Store.ClearGuildTimezones(ctx, i.GuildID); err != nil {
		logger.Error("failed to clear guild timezones", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ Error setting timezone display")
		return
	}
	for _, entry := range entries {
		if _, err := b.Store.UpsertGuildTimezone(ctx, &store.UpsertGuildTimezone{
			GuildID:     i.GuildID,
			DisplayName: entry.Name,
			Timezone:    entry.Timezone,
		}); err != nil {
			logger.Error("failed to apply preset entry", slog.String("name", entry.Name), slog.String("error", err.Error()))
			respondEphemeral(s, i, "❌ Error setting timezone display")
			return
		}
	}

	preview, err := b.guildPreview(ctx, i.GuildID)
	if err != nil {
		logger.Error("failed to build display preview", slog.String("error", err.Error()))
	}
	title := presetTitle(preset)
	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "✅ Timezone Display Updated",
		Description: fmt.Sprintf("Set to %s preset:\n\n%s", title, preview),
		Color:       colorGreen,
	}, true)
}

func (b *Bot) handleFormatTime(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) {
	ctx, cancel := handlerContext()
	defer cancel()

	userZone, ok := b.requireUserTimezone(ctx, s, i, logger)
	if !ok {
		return
	}

	opts := optionMap(i)
	parsed, err := b.Parser.Parse(ctx, stringOption(opts, "time"), userZone)
	if err != nil {
		if errors.Is(err, timeparse.ErrUnparseable) {
			respondEphemeral(s, i, "❌ Could not understand that time format")
			return
		}
		logger.Error("failed to parse time", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ Error formatting time")
		return
	}

	tpl := calendarTemplate(stringOption(opts, "template"))
	title := tpl.TitlePrefix + stringOption(opts, "title")
	description := stringOption(opts, "description")
	if description == "" {
		description = tpl.Description
	}

	embed := calendarEmbed(parsed, title, tpl.Duration, description)
	embed.Description += "\n\n" + TimestampPreview(parsed)
	respondEmbed(s, i, embed, true)
}

func (b *Bot) handleTimestamps(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) {
	ctx, cancel := handlerContext()
	defer cancel()

	userZone, ok := b.requireUserTimezone(ctx, s, i, logger)
	if !ok {
		return
	}

	parsed, err := b.Parser.Parse(ctx, stringOption(optionMap(i), "time"), userZone)
	if err != nil {
		if errors.Is(err, timeparse.ErrUnparseable) {
			respondEphemeral(s, i, "❌ Could not understand that time format")
			return
		}
		logger.Error("failed to parse time", slog.String("error", err.Error()))
		respondEphemeral(s, i, "❌ Error formatting timestamps")
		return
	}

	respondEphemeral(s, i, TimestampPreview(parsed))
}

func (b *Bot) guildPreview(ctx context.Context, guildID string) (string, error) {
	zones, err := b.displayZones(ctx, guildID)
	if err != nil {
		return "", err
	}
	return FormatConversions(time.Now().UTC(), zones), nil
}

// presetTitle turns "north_america" into "North America".
func presetTitle(preset string) string {
	words := strings.Split(preset, "_")
	for idx, w := range words {
		if w == "" {
			continue
		}
		words[idx] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func interactionUserName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return "unknown"
}
