package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/config"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
)

// InitStore selects and returns the configured store. The returned close
// func releases the database connection, if any.
func InitStore(cfg *config.Server) (db.Store, func(), error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory store; nothing survives a restart")
		return db.NewMemoryStore(), func() {}, nil
	}

	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("database ready")
	return db.NewSQLStore(conn), func() { conn.Close() }, nil
}
