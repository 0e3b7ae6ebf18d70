// Package bot hosts the Discord gateway client and its slash commands.
package bot

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/whenbot/whenbot/internal/profile"
	"github.com/whenbot/whenbot/plugin/timeparse"
	"github.com/whenbot/whenbot/plugin/zonematch"
	"github.com/whenbot/whenbot/server/middleware"
	"github.com/whenbot/whenbot/store"
)

// Bot wires the Discord session to the parsing and resolution services.
type Bot struct {
	Profile *profile.Profile
	Store   *store.Store
	Parser  timeparse.ParserService
	Zones   zonematch.ZoneService

	session *discordgo.Session
	limiter *middleware.RateLimiter
}

// New creates a bot bound to the given services. The session is not opened
// until Start.
func New(profile *profile.Profile, store *store.Store, parser timeparse.ParserService, zones zonematch.ZoneService) (*Bot, error) {
	session, err := discordgo.New("Bot " + profile.Token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create discord session")
	}
	session.Identify.Intents = discordgo.IntentsNone

	b := &Bot{
		Profile: profile,
		Store:   store,
		Parser:  parser,
		Zones:   zones,
		session: session,
		limiter: middleware.NewRateLimiter(),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return errors.Wrap(err, "failed to open discord session")
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", commandDefinitions)
	if err != nil {
		_ = b.session.Close()
		return errors.Wrap(err, "failed to register slash commands")
	}
	slog.Info("slash commands registered", slog.Int("count", len(registered)))
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		slog.Error("failed to close discord session", slog.String("error", err.Error()))
	}
	slog.Info("discord session closed")
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	slog.Info("discord gateway ready", slog.String("user", r.User.Username))
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.dispatchAutocomplete(s, i)
	}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	handler, ok := commandHandlers[data.Name]
	if !ok {
		return
	}

	requestID := uuid.NewString()
	userID := interactionUserID(i)
	logger := slog.With(
		slog.String("request", requestID),
		slog.String("command", data.Name),
		slog.String("user", userID),
	)

	if !b.limiter.Allow(userID) {
		logger.Warn("command rate limited")
		respondEphemeral(s, i, "⏳ Slow down a little and try again in a moment.")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in command handler", "panic", r)
			respondEphemeral(s, i, "❌ An unexpected error occurred.")
		}
	}()

	handler(b, s, i, logger)
}

func (b *Bot) dispatchAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	handler, ok := autocompleteHandlers[data.Name]
	if !ok {
		return
	}
	handler(b, s, i)
}

// interactionUserID works for both guild and DM interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("failed to respond to interaction", slog.String("error", err.Error()))
	}
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Error("failed to respond to interaction", slog.String("error", err.Error()))
	}
}

func respondChoices(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		slog.Error("failed to respond to autocomplete", slog.String("error", err.Error()))
	}
}
