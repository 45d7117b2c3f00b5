package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/config"
	"github.com/Nixie-Tech-LLC/zonecast/internal/display"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadDisplay()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := config.ConfigureLogging(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file loaded")
	}

	dialer, err := display.NewWebsocketDialer(cfg.ServerURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid SERVER_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	player := display.NewPlayer(display.LogRenderer{}, nil)
	session := display.NewSession(display.Options{
		Zone:                 cfg.Zone,
		Dialer:               dialer,
		Puller:               display.NewHTTPPuller(cfg.ServerURL, nil),
		Player:               player,
		ReconnectBaseDelay:   cfg.ReconnectBaseDelay,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
		HeartbeatInterval:    cfg.HeartbeatInterval,
		PollInterval:         cfg.PollInterval,
	})

	// SIGHUP retries a failed connection, SIGUSR1 and SIGUSR2 pause and resume playback.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-signals:
				switch sig {
				case syscall.SIGHUP:
					session.Retry()
				case syscall.SIGUSR1:
					player.Pause()
				case syscall.SIGUSR2:
					player.Resume()
				}
			}
		}
	}()

	log.Info().Str("server", cfg.ServerURL).Str("zone", cfg.Zone).Msg("[display] starting")
	go player.Run(ctx)
	session.Run(ctx)

	st := session.Status()
	log.Info().Str("state", st.State.String()).Str("zone", st.Zone).Msg("[display] stopped")
}
