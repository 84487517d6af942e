// Package config loads the demo bot's configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the demo bot's runtime configuration.
type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN,required"`
	GuildIDs     []string `env:"GUILD_IDS" envSeparator:","`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
}

// New loads configuration from .env (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, falling back to system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
