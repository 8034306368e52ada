// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// envKeys maps environment variables to configuration keys. Variables not
// listed here are ignored.
var envKeys = map[string]string{
	"DATABASE_URL":             "database.url",
	"REDIS_ADDR":               "redis.addr",
	"REDIS_PASSWORD":           "redis.password",
	"LIFTLOG_SESSION_SECRET":   "http.session_secret",
	"LIFTLOG_HTTP_ADDR":        "http.addr",
	"LIFTLOG_SECURE_COOKIES":   "http.secure_cookies",
	"LIFTLOG_LOG_LEVEL":        "log.level",
	"LIFTLOG_LOG_FORMAT":       "log.format",
	"LIFTLOG_SESSIONS_BACKEND": "sessions.backend",
	"LIFTLOG_SESSION_TTL":      "sessions.ttl",
	"LIFTLOG_METRICS_ADDR":     "metrics.addr",
	"LIFTLOG_DB_AUTO_MIGRATE":  "database.auto_migrate",
	"LIFTLOG_BCRYPT_COST":      "auth.bcrypt_cost",
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"http-addr":        "http.addr",
	"database-url":     "database.url",
	"sessions-backend": "sessions.backend",
	"redis-addr":       "redis.addr",
	"metrics-addr":     "metrics.addr",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"auto-migrate":     "database.auto_migrate",
}

// EnvKeys returns the environment variables Load reads.
func EnvKeys() map[string]string {
	out := make(map[string]string, len(envKeys))
	for k, v := range envKeys {
		out[k] = v
	}
	return out
}

// RegisterFlags adds the configuration override flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http-addr", "", "web server listen address")
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.String("sessions-backend", "", "session storage backend (postgres or redis)")
	fs.String("redis-addr", "", "redis address for the redis session backend")
	fs.String("metrics-addr", "", "observability listen address (empty disables)")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (json or text)")
	fs.Bool("auto-migrate", false, "apply pending migrations on startup")
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// File is a YAML config file. A missing file is an error only when
	// Required is set.
	File     string
	Required bool

	// EnvFile is a dotenv file loaded into the process environment
	// before variables are read. Missing files are ignored.
	EnvFile string

	// Flags holds flags registered with RegisterFlags. Only flags the
	// user changed override other sources.
	Flags *pflag.FlagSet
}

// Load builds a Config from defaults, the YAML file, the environment and
// flags, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	cfg, err := load(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnvalidated is Load without validation. Used by config show so an
// incomplete configuration can still be inspected.
func LoadUnvalidated(opts LoadOptions) (*Config, error) {
	return load(opts)
}

func load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_ENV_FILE_FAILED").With("path", opts.EnvFile).Wrap(err)
		}
	}

	ko := koanf.New(".")
	if err := ko.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if opts.File != "" {
		if err := loadFile(ko, opts.File, opts.Required); err != nil {
			return nil, err
		}
	}

	if err := loadEnv(ko); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", ko, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := ko.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := ko.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}
	return &cfg, nil
}

func loadFile(ko *koanf.Koanf, path string, required bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
	}
	if err := ValidateYAML(data); err != nil {
		return oops.Code("CONFIG_SCHEMA_INVALID").With("path", path).Wrap(err)
	}
	if err := ko.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("source", "file").With("path", path).Wrap(err)
	}
	return nil
}

func loadEnv(ko *koanf.Koanf) error {
	provider := env.ProviderWithValue("", ".", func(name, value string) (string, any) {
		key, known := envKeys[name]
		if !known || value == "" {
			return "", nil
		}
		return key, value
	})
	if err := ko.Load(provider, nil); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}
	return nil
}
