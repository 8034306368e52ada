// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package config loads LiftLog configuration from defaults, a YAML file,
// the environment and command-line flags, in increasing precedence.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/logging"
)

// Session storage backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// MinSessionSecretBytes is the shortest accepted cookie signing secret.
const MinSessionSecretBytes = 32

// Bcrypt cost bounds accepted by auth.bcrypt_cost.
const (
	MinBcryptCost = 4
	MaxBcryptCost = 31
)

const redacted = "[REDACTED]"

// Duration is a time.Duration written as a Go duration string ("336h").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return oops.Code("CONFIG_INVALID_DURATION").With("value", string(text)).Wrap(err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// JSONSchema describes durations as strings.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		Description: "Go duration, for example 30m or 336h",
	}
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete application configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http" json:"http,omitempty"`
	Database DatabaseConfig `koanf:"database" json:"database,omitempty"`
	Sessions SessionsConfig `koanf:"sessions" json:"sessions,omitempty"`
	Redis    RedisConfig    `koanf:"redis" json:"redis,omitempty"`
	Metrics  MetricsConfig  `koanf:"metrics" json:"metrics,omitempty"`
	Log      LogConfig      `koanf:"log" json:"log,omitempty"`
	Auth     AuthConfig     `koanf:"auth" json:"auth,omitempty"`
}

// HTTPConfig configures the web server.
type HTTPConfig struct {
	Addr          string `koanf:"addr" json:"addr,omitempty" jsonschema:"description=Listen address of the web server"`
	SessionSecret string `koanf:"session_secret" json:"session_secret,omitempty" jsonschema:"description=Cookie signing secret (at least 32 bytes)"`
	SecureCookies bool   `koanf:"secure_cookies" json:"secure_cookies,omitempty" jsonschema:"description=Mark cookies Secure (serve over HTTPS)"`
}

// DatabaseConfig configures PostgreSQL.
type DatabaseConfig struct {
	URL             string `koanf:"url" json:"url,omitempty" jsonschema:"description=PostgreSQL connection URL"`
	ConnectAttempts int    `koanf:"connect_attempts" json:"connect_attempts,omitempty" jsonschema:"minimum=1"`
	AutoMigrate     bool   `koanf:"auto_migrate" json:"auto_migrate,omitempty" jsonschema:"description=Apply pending migrations when serve starts"`
}

// SessionsConfig configures login sessions.
type SessionsConfig struct {
	Backend         string   `koanf:"backend" json:"backend,omitempty" jsonschema:"enum=postgres,enum=redis"`
	TTL             Duration `koanf:"ttl" json:"ttl,omitempty"`
	CleanupInterval Duration `koanf:"cleanup_interval" json:"cleanup_interval,omitempty"`
}

// RedisConfig configures the redis session backend.
type RedisConfig struct {
	Addr     string `koanf:"addr" json:"addr,omitempty"`
	Password string `koanf:"password" json:"password,omitempty"`
	DB       int    `koanf:"db" json:"db,omitempty" jsonschema:"minimum=0"`
}

// MetricsConfig configures the observability listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" json:"addr,omitempty"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// AuthConfig configures password hashing.
type AuthConfig struct {
	BcryptCost int `koanf:"bcrypt_cost" json:"bcrypt_cost,omitempty" jsonschema:"minimum=4,maximum=31"`
}

// Defaults returns the configuration used when nothing overrides a key.
func Defaults() map[string]any {
	return map[string]any{
		"http.addr":                 ":8080",
		"http.secure_cookies":       false,
		"database.connect_attempts": 5,
		"database.auto_migrate":     true,
		"sessions.backend":          BackendPostgres,
		"sessions.ttl":              "336h",
		"sessions.cleanup_interval": "1h",
		"redis.addr":                "localhost:6379",
		"redis.db":                  0,
		"metrics.addr":              "127.0.0.1:9100",
		"log.format":                logging.FormatJSON,
		"log.level":                 "info",
		"auth.bcrypt_cost":          14,
	}
}

// Validate reports every invalid or missing value at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(p string) { problems = append(problems, p) }

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		add("http.addr is required")
	}
	if len(c.HTTP.SessionSecret) < MinSessionSecretBytes {
		add("http.session_secret must be at least 32 bytes")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		add("database.url is required")
	}
	if c.Database.ConnectAttempts < 1 {
		add("database.connect_attempts must be at least 1")
	}
	switch c.Sessions.Backend {
	case BackendPostgres:
	case BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			add("redis.addr is required for the redis session backend")
		}
	default:
		add("sessions.backend must be postgres or redis")
	}
	if c.Sessions.TTL <= 0 {
		add("sessions.ttl must be positive")
	}
	if c.Sessions.CleanupInterval < 0 {
		add("sessions.cleanup_interval must not be negative")
	}
	if c.Redis.DB < 0 {
		add("redis.db must not be negative")
	}
	if c.Log.Format != logging.FormatJSON && c.Log.Format != logging.FormatText {
		add("log.format must be json or text")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level must be debug, info, warn or error")
	}
	if c.Auth.BcryptCost < MinBcryptCost || c.Auth.BcryptCost > MaxBcryptCost {
		add("auth.bcrypt_cost must be between 4 and 31")
	}

	if len(problems) == 0 {
		return nil
	}
	return oops.Code("CONFIG_INVALID").
		With("problems", problems).
		Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// Redacted returns a copy safe to print: secrets are masked and the
// database URL loses its password.
func (c Config) Redacted() Config {
	if c.HTTP.SessionSecret != "" {
		c.HTTP.SessionSecret = redacted
	}
	if c.Redis.Password != "" {
		c.Redis.Password = redacted
	}
	if u, err := url.Parse(c.Database.URL); err == nil && u.User != nil {
		c.Database.URL = u.Redacted()
	}
	return c
}
