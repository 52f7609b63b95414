// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required for the server and migrate commands.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SessionIdleTTL is the idle window after which an unused session is eligible
	// for removal (e.g. "15m").
	SessionIdleTTL string `mapstructure:"SESSION_IDLE_TTL"`
	// CookieSecure marks the session cookie as Secure (HTTPS only). Disable for local dev.
	CookieSecure bool `mapstructure:"COOKIE_SECURE"`
	// OTLPEndpoint is the OTLP collector endpoint (e.g. http://localhost:4317).
	// Empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SESSION_IDLE_TTL", "15m")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.SessionIdleTTL != "" {
		if d, err := time.ParseDuration(cfg.SessionIdleTTL); err != nil || d <= 0 {
			return nil, errors.New("config: SESSION_IDLE_TTL must be a positive duration")
		}
	}

	return &cfg, nil
}

// IdleTTL parses SessionIdleTTL as a time.Duration. Returns 15m if unset.
func (c *Config) IdleTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionIdleTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}
