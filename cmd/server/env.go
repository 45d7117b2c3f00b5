package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/config"
)

// LoadEnvironment reads .env when present, then the server settings, and
// configures the global logger.
func LoadEnvironment() *config.Server {
	envErr := godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := config.ConfigureLogging(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file loaded")
	}
	return cfg
}
