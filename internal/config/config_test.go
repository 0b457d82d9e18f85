package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[server]
http_port = 9090

[database]
host = "db"
user = "guide"
password = "from-file"
dbname = "guide_sessions"

[payment_service]
url = "http://payments:8080"

[booking]
calendar_window_days = 30
reminder_lead_hours = 12
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30, cfg.Booking.CalendarWindowDays)
	assert.Equal(t, 3, cfg.Booking.SerializableRetries)
	assert.Equal(t, 12*time.Hour, cfg.ReminderLead())
	assert.Equal(t, 30*time.Minute, cfg.PaymentIntentTTL())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, "host=db port=5432 user=guide password=from-file dbname=guide_sessions sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_PASSWORD", "redis-secret")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "redis-secret", cfg.Redis.Password)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQ.URL)
}

func TestLoad_Timezone(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample+"timezone = \"Europe/Paris\"\n"))
	require.NoError(t, err)

	loc := cfg.Location()
	assert.Equal(t, "Europe/Paris", loc.String())

	// 09:00 по Парижу летом - 07:00 UTC
	start := time.Date(2026, 6, 10, 9, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 6, 10, 7, 0, 0, 0, time.UTC), start.UTC())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"calendar window", func(c *Config) { c.Booking.CalendarWindowDays = 0 }},
		{"rabbitmq without url", func(c *Config) { c.RabbitMQ.Enabled = true; c.RabbitMQ.URL = "" }},
		{"payment url", func(c *Config) { c.PaymentService.URL = "" }},
		{"unknown timezone", func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, sample))
			require.NoError(t, err)

			tt.mutate(cfg)

			assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
