package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Database drivers accepted in DATABASE_DRIVER. The sql drivers double as
// the names registered with database/sql.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Server holds environment-based settings for cmd/server
type Server struct {
	Environment    string
	LogLevel       string
	ServerAddress  string
	DatabaseDriver string
	DatabaseURL    string
	JWTSecret      string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	PresenceTTL   time.Duration

	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTTopicPrefix string

	SweepInterval time.Duration
}

// Display holds environment-based settings for cmd/display
type Display struct {
	Environment          string
	LogLevel             string
	ServerURL            string
	Zone                 string
	ReconnectBaseDelay   time.Duration
	MaxReconnectAttempts int
	HeartbeatInterval    time.Duration
	PollInterval         time.Duration
}

// LoadServer reads server configuration from environment variables
func LoadServer() (*Server, error) {
	cfg := &Server{
		Environment:     os.Getenv("APP_ENV"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		ServerAddress:   getenv("SERVER_ADDRESS", ":8080"),
		DatabaseDriver:  getenv("DATABASE_DRIVER", DriverMemory),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RedisAddress:    os.Getenv("REDIS_ADDRESS"),
		RedisUsername:   os.Getenv("REDIS_USERNAME"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		MQTTBrokerURL:   os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:    getenv("MQTT_CLIENT_ID", "zonecast-server"),
		MQTTTopicPrefix: getenv("MQTT_TOPIC_PREFIX", "zonecast"),
	}

	var err error
	if cfg.PresenceTTL, err = duration("PRESENCE_TTL", 90*time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = duration("SCHEDULE_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	switch cfg.DatabaseDriver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for driver %s", cfg.DatabaseDriver)
		}
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER must be one of memory, postgres, sqlite; got %q", cfg.DatabaseDriver)
	}
	return cfg, nil
}

// LoadDisplay reads display client configuration from environment variables
func LoadDisplay() (*Display, error) {
	cfg := &Display{
		Environment: os.Getenv("APP_ENV"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		ServerURL:   getenv("SERVER_URL", "http://localhost:8080"),
		Zone:        getenv("DISPLAY_ZONE", "reception"),
	}

	var err error
	if cfg.ReconnectBaseDelay, err = duration("RECONNECT_BASE_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.HeartbeatInterval, err = duration("HEARTBEAT_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = duration("POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxReconnectAttempts, err = integer("MAX_RECONNECT_ATTEMPTS", 10); err != nil {
		return nil, err
	}
	if cfg.MaxReconnectAttempts < 1 {
		return nil, fmt.Errorf("MAX_RECONNECT_ATTEMPTS must be at least 1")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
