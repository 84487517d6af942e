// Command slashbot is a small demo bot wiring the library end to end:
// declared commands are synced against the remote registry on startup, and
// each invocation produces an interaction-bound message that is edited and
// then cleaned up through the deferred-deletion path.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/slashkit/discord"
	"github.com/keshon/slashkit/internal/config"
	"github.com/keshon/slashkit/message"
	"github.com/keshon/slashkit/registry"
	"github.com/keshon/slashkit/rest"
	"github.com/keshon/slashkit/schema"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	if err := registerDemoCommands(registry.DefaultRegistry, cfg.GuildIDs); err != nil {
		logger.Fatal().Err(err).Msg("failed to declare commands")
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		client := discord.NewClient(s, r.User.ID)
		syncer := registry.NewSyncer(client, registry.DefaultRegistry, logger)
		for _, guildID := range cfg.GuildIDs {
			if err := syncer.Sync(ctx, r.User.ID, guildID); err != nil {
				logger.Error().Err(err).Str("guild_id", guildID).Msg("command sync failed")
			}
		}
		logger.Info().Str("user", r.User.Username).Msg("bot is running")
	})
	dg.AddHandler(onInteraction(&logger))

	if err := dg.Open(); err != nil {
		logger.Fatal().Err(err).Msg("failed to open session")
	}
	defer dg.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutdown signal received")
}

// registerDemoCommands declares the demo's commands. Validation happens
// here, long before anything touches the network.
func registerDemoCommands(reg *registry.Registry, guildIDs []string) error {
	roll, err := schema.NewCommand("roll", schema.Declaration{
		Description: "Roll a die",
		GuildIDs:    guildIDs,
		Options: []schema.Option{
			{
				Type:        schema.OptionInteger,
				Name:        "sides",
				Description: "How many sides the die has",
				Required:    true,
				Choices: []schema.Choice{
					{Name: "d6", Value: int64(6)},
					{Name: "d20", Value: int64(20)},
					{Name: "d100", Value: int64(100)},
				},
			},
		},
	})
	if err != nil {
		return err
	}
	reg.Register(roll)

	task, err := schema.NewCommand("task", schema.Declaration{
		Description: "Manage tasks",
		GuildIDs:    guildIDs,
		Options: []schema.Option{
			{
				Type:        schema.OptionSubCommandGroup,
				Name:        "assign",
				Description: "Assign a task",
				Options: []schema.Option{
					{
						Type:        schema.OptionSubCommand,
						Name:        "user",
						Description: "Assign a task to a user",
						Options: []schema.Option{
							{Type: schema.OptionUser, Name: "target", Description: "Who gets the task", Required: true},
							{Type: schema.OptionString, Name: "text", Description: "The task itself", Required: true},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return err
	}
	reg.Register(task)

	return nil
}

// onInteraction answers a slash command, then edits the answer and lets the
// deferred-deletion path clean it up half a minute later.
func onInteraction(logger *zerolog.Logger) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := i.ApplicationCommandData()
		if data.Name != "roll" {
			return
		}

		sides := int64(6)
		for _, opt := range data.Options {
			if opt.Name == "sides" {
				sides = opt.IntValue()
			}
		}

		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: "Rolling..."},
		})
		if err != nil {
			logger.Error().Err(err).Msg("failed to respond to interaction")
			return
		}

		response, err := s.InteractionResponse(i.Interaction)
		if err != nil {
			logger.Error().Err(err).Msg("failed to fetch interaction response")
			return
		}

		client := discord.NewClient(s, s.State.User.ID)
		msg := message.New(discord.MessageData(response), i.Token, message.Options{
			Client:          client,
			AllowedMentions: &rest.AllowedMentions{Parse: []string{}},
			Logger:          logger,
		})

		result := fmt.Sprintf("You rolled a **%d** (d%d)", 1+rand.Int63n(sides), sides)
		if _, err := msg.Edit(context.Background(), message.Edit{
			Content:     &result,
			DeleteAfter: 30 * time.Second,
		}); err != nil {
			logger.Error().Err(err).Msg("failed to edit roll result")
		}
	}
}
