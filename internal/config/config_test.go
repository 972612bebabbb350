package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[server]
http_port = 9000

[database]
host = "localhost"
user = "sportafit"
password = "from-file"
dbname = "sportafit"

[auth]
jwt_secret = "file-secret"

[booking]
expiry_window_minutes = 20
service_fee = 5000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int64(5000), cfg.Booking.ServiceFee)
	assert.Equal(t, 20, cfg.Booking.ExpiryWindowMinutes)
	assert.Equal(t, "@every 1m", cfg.Booking.SweepSchedule)
	assert.Equal(t, 25, cfg.Events.HeartbeatSeconds)
	assert.Equal(t, "booking.exchange", cfg.RabbitMQ.BookingExchange)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SPORTAFIT_DATABASE_PASSWORD", "from-env")
	t.Setenv("SPORTAFIT_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("SPORTAFIT_BOOKING_SERVICE_FEE", "2500")

	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, int64(2500), cfg.Booking.ServiceFee)
	assert.Equal(t, "sportafit", cfg.Database.User)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.Database.Host = "localhost"
		cfg.Database.DBName = "sportafit"
		cfg.Auth.JWTSecret = "secret"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"empty jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"zero expiry window", func(c *Config) { c.Booking.ExpiryWindowMinutes = 0 }},
		{"negative service fee", func(c *Config) { c.Booking.ServiceFee = -1 }},
		{"slot not dividing a day", func(c *Config) { c.Booking.SlotDurationMinutes = 7 }},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true }},
		{"rabbitmq without url", func(c *Config) { c.RabbitMQ.Enabled = true }},
		{"unknown timezone", func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestBookingConfig_ExpiryWindow(t *testing.T) {
	b := BookingConfig{ExpiryWindowMinutes: 15}
	assert.Equal(t, "15m0s", b.ExpiryWindow().String())
}
