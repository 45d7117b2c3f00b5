package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_ADDRESS", "DATABASE_DRIVER", "DATABASE_URL", "PRESENCE_TTL", "SCHEDULE_SWEEP_INTERVAL", "MQTT_TOPIC_PREFIX"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
	assert.Equal(t, 90*time.Second, cfg.PresenceTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, "zonecast", cfg.MQTTTopicPrefix)
}

func TestLoadServer_Validation(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := LoadServer()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_DRIVER", "mongo")
	_, err = LoadServer()
	assert.ErrorContains(t, err, "DATABASE_DRIVER")

	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:zonecast.db")
	t.Setenv("SCHEDULE_SWEEP_INTERVAL", "soon")
	_, err = LoadServer()
	assert.ErrorContains(t, err, "SCHEDULE_SWEEP_INTERVAL")
}

func TestLoadDisplay(t *testing.T) {
	t.Setenv("DISPLAY_ZONE", "shop")
	t.Setenv("RECONNECT_BASE_DELAY", "250ms")
	t.Setenv("MAX_RECONNECT_ATTEMPTS", "5")
	t.Setenv("HEARTBEAT_INTERVAL", "")
	t.Setenv("POLL_INTERVAL", "")

	cfg, err := LoadDisplay()
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.Zone)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectBaseDelay)
	assert.Equal(t, 5, cfg.MaxReconnectAttempts)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)

	t.Setenv("MAX_RECONNECT_ATTEMPTS", "0")
	_, err = LoadDisplay()
	assert.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	require.NoError(t, ConfigureLogging("production", "warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	assert.Error(t, ConfigureLogging("production", "loud"))
}
