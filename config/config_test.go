package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"DB_URL", "JWT_SECRET", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_WHATSAPP_FROM",
	"ADMIN_WHATSAPP_PHONE", "TWILIO_TEMPLATE_CONTENT_SID", "REDIS_ADDR", "TELEGRAM_BOT_TOKEN",
	"APP_TIMEZONE", "LOG_LEVEL", "PORT", "TELEGRAM_ADMIN_CHAT_ID", "JWT_EXPIRY_MINUTES",
}

func clearEnv(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "whatsapp:+14155238886", cfg.WhatsApp.From)
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.True(t, cfg.GeneratedSecret)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
[server]
port = 9000
allowed_origins = ["https://skyview.example"]

[auth]
jwt_secret = "from-file"
token_ttl_minutes = 30

[whatsapp]
admin_phone = "9876543210"
notify_customer = true

[app]
timezone = "UTC"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://skyview.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.False(t, cfg.GeneratedSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.True(t, cfg.WhatsApp.NotifyCustomer)
	assert.Equal(t, "91", cfg.WhatsApp.CountryCode)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, ":9000", cfg.Server.Addr())
}

func TestLoadYAMLExpandsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKYVIEW_TEST_DSN", "postgres://localhost/skyview")
	path := writeFile(t, "config.yaml", `
database:
  url: ${SKYVIEW_TEST_DSN}
redis:
  address: localhost:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/skyview", cfg.Database.URL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-100123")
	t.Setenv("JWT_EXPIRY_MINUTES", "15")
	path := writeFile(t, "config.toml", "[server]\nport = 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, int64(-100123), cfg.Telegram.AdminChatID)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL())
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeFile(t, "config.ini", "port=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "config.toml", "[server\nport ="))
	assert.ErrorIs(t, err, ErrParse)

	t.Setenv("PORT", "eighty")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidValue)

	t.Setenv("PORT", "")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
