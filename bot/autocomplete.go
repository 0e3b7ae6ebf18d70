package bot

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/whenbot/whenbot/plugin/zonematch"
)

// maxChoices is the Discord limit on autocomplete results.
const maxChoices = 25

type autocompleteHandler func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate)

var autocompleteHandlers = map[string]autocompleteHandler{
	"timezone":        (*Bot).completeTimezone,
	"add_timezone":    (*Bot).completeTimezone,
	"remove_timezone": (*Bot).completeDisplayName,
}

// defaultZoneChoices are offered before the user has typed anything.
var defaultZoneChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "US Eastern (EST)", Value: "EST"},
	{Name: "US Central (CST)", Value: "CST"},
	{Name: "US Pacific (PST)", Value: "PST"},
	{Name: "UK (GMT/BST)", Value: "GMT"},
	{Name: "Central Europe", Value: "CET"},
}

func (b *Bot) completeTimezone(s *discordgo.Session, i *discordgo.InteractionCreate) {
	current := focusedOptionValue(i)
	if current == "" {
		respondChoices(s, i, defaultZoneChoices)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)
	for _, token := range b.Zones.Suggest(ctx, current, 6) {
		name := token
		if zone, ok := zonematch.AliasZone(token); ok {
			name = token + " (" + zone + ")"
		} else {
			name = strings.ReplaceAll(token, "_", " ")
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: token})
		if len(choices) >= maxChoices {
			break
		}
	}
	respondChoices(s, i, choices)
}

func (b *Bot) completeDisplayName(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondChoices(s, i, nil)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	list, err := b.Store.ListGuildTimezones(ctx, i.GuildID)
	if err != nil {
		slog.Error("failed to list guild timezones for autocomplete", slog.String("error", err.Error()))
		respondChoices(s, i, nil)
		return
	}

	current := strings.ToLower(focusedOptionValue(i))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(list))
	for _, gt := range list {
		if current != "" && !strings.Contains(strings.ToLower(gt.DisplayName), current) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: gt.DisplayName, Value: gt.DisplayName})
		if len(choices) >= maxChoices {
			break
		}
	}
	respondChoices(s, i, choices)
}

// focusedOptionValue returns the value of the option currently being typed.
func focusedOptionValue(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}
