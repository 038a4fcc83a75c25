package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shopfront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "dev-secret-change-me", cfg.Auth.JWTSecret)
	assert.Equal(t, 30, cfg.Auth.TTLMinutes)
	assert.Equal(t, "shopfront-dev", cfg.Auth.Issuer)
	assert.Equal(t, "shopfront", cfg.Auth.Audience)
	assert.Equal(t, "shopfront.db", cfg.Journal.Path)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
auth:
  jwt_secret: top-secret
  ttl_minutes: 5
backend:
  base_url: http://shop.internal:8443
  timeout: 5s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "top-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 5, cfg.Auth.TTLMinutes)
	assert.Equal(t, "http://shop.internal:8443", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, "shopfront-dev", cfg.Auth.Issuer)
	assert.Equal(t, "shopfront.db", cfg.Journal.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "server: [this is not\n  a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SHOPFRONT_SERVER_ADDR", ":7070")
	t.Setenv("SHOPFRONT_AUTH_TTL_MINUTES", "90")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 90, cfg.Auth.TTLMinutes)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")
	t.Setenv("SHOPFRONT_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestAuthConfig_TTL(t *testing.T) {
	cfg := AuthConfig{TTLMinutes: 45}
	assert.Equal(t, 45*time.Minute, cfg.TTL())
}

func TestLogConfig_SlogLevel(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose-nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LogConfig{Level: tc.level}.SlogLevel(), "level %q", tc.level)
	}
}
