package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/Nixie-Tech-LLC/zonecast/internal/config"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db/migrations"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

type sqlStore struct {
	db *sqlx.DB
}

// compile-time check that sqlStore implements Store
var _ Store = (*sqlStore)(nil)

func NewSQLStore(conn *sqlx.DB) Store {
	return &sqlStore{db: conn}
}

// Connect opens a database connection, retrying while the server comes up.
func Connect(driver, databaseURL string) (*sqlx.DB, error) {
	const maxRetries = 10
	const retryInterval = 2 * time.Second
	var (
		conn *sqlx.DB
		err  error
	)

	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err = sqlx.Connect(driver, databaseURL)
		if err == nil {
			if driver == config.DriverSQLite {
				// every new connection to an in-memory sqlite database is empty
				conn.SetMaxOpenConns(1)
			}
			log.Info().Str("driver", driver).Msg("connected to database")
			return conn, nil
		}

		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", retryInterval)

		time.Sleep(retryInterval)
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
}

// Migrate applies the embedded goose migrations.
func Migrate(conn *sqlx.DB) error {
	goose.SetBaseFS(migrations.GetMigrations())

	dialect := string(goose.DialectPostgres)
	if conn.DriverName() == config.DriverSQLite {
		dialect = string(goose.DialectSQLite3)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(conn.DB, "."); err != nil {
		log.Error().Err(err).Msg("failed to apply migrations")
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// notFound maps sql.ErrNoRows to model.ErrNotFound and passes anything else through.
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", what, id, model.ErrNotFound)
	}
	return err
}
