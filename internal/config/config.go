// Package config loads the shopfront configuration: a YAML file merged
// over defaults, with SHOPFRONT_ environment overrides on top. Every key
// has a default, so an empty path yields a runnable dev configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Journal JournalConfig `mapstructure:"journal"`
	Backend BackendConfig `mapstructure:"backend"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the dev backend listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// AuthConfig configures JWT issuing on the dev backend.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	Issuer     string `mapstructure:"issuer"`
	Audience   string `mapstructure:"audience"`
}

// TTL returns the configured token life.
func (c AuthConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// JournalConfig locates the action journal.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// BackendConfig points the engine at a storefront API.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel maps the configured level name to a slog level. Unknown names
// fall back to Info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Load reads the configuration. An empty path skips the file and returns
// defaults plus environment overrides; a named file that cannot be read
// is an error, never a silent fallback.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SHOPFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	v.SetDefault("auth.ttl_minutes", 30)
	v.SetDefault("auth.issuer", "shopfront-dev")
	v.SetDefault("auth.audience", "shopfront")
	v.SetDefault("journal.path", "shopfront.db")
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
}
