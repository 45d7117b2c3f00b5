package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/audit"
	"github.com/Nixie-Tech-LLC/zonecast/internal/config"
	"github.com/Nixie-Tech-LLC/zonecast/internal/content"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/endpoints"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/zonecast/internal/hub"
	"github.com/Nixie-Tech-LLC/zonecast/internal/mqtt"
	"github.com/Nixie-Tech-LLC/zonecast/internal/redis"
	"github.com/Nixie-Tech-LLC/zonecast/internal/schedule"
)

func main() {
	issueToken := flag.String("issue-token", "", "print an admin bearer token for the given operator and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-token")
	flag.Parse()

	cfg := LoadEnvironment()

	if *issueToken != "" {
		if cfg.JWTSecret == "" {
			log.Fatal().Msg("JWT_SECRET is required to issue tokens")
		}
		token, err := middleware.GenerateJWT(*issueToken, cfg.JWTSecret, *tokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to sign token")
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := InitStore(cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer closeStore()

	clock := clockwork.NewRealClock()
	recorder := audit.NewRecorder(store, clock)

	sse := hub.NewSSEMirror()
	defer sse.Close()
	mirrors := []hub.Mirror{sse}
	if cfg.MQTTBrokerURL != "" {
		bridge, err := mqtt.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
		if err != nil {
			// the mirror is optional; displays do not depend on it
			log.Error().Err(err).Str("broker", cfg.MQTTBrokerURL).Msg("mqtt bridge disabled")
		} else {
			defer bridge.Close()
			mirrors = append(mirrors, bridge)
		}
	}

	h := hub.New(hub.Options{
		Resolver:  schedule.NewResolver(store),
		Directory: store,
		Mirrors:   mirrors,
		Recorder:  recorder,
		Clock:     clock,
	})
	go h.Run(ctx)

	contents := content.NewManager(store, h, recorder, clock)
	schedules := schedule.NewManager(store, h, recorder, clock)

	monitor, err := schedule.NewMonitor(cfg.SweepInterval, h)
	if err != nil {
		return fmt.Errorf("schedule monitor: %w", err)
	}
	monitor.Start()
	defer func() {
		if err := monitor.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop schedule monitor")
		}
	}()

	var presence endpoints.Presence = redis.NoopPresence{}
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		defer rdb.Close()
		presence = redis.NewPresence(rdb, cfg.PresenceTTL)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, Services{
		Store:    store,
		Hub:      h,
		Content:  contents,
		Schedule: schedules,
		Events:   sse,
		Presence: presence,
	})

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	errs := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
