// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/liftlog/liftlog/internal/observability"
	"github.com/liftlog/liftlog/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DatabaseFactory opens the connection pool.
	// Default: store.Connect
	DatabaseFactory func(ctx context.Context, url string, attempts int) (Database, error)

	// MigratorFactory creates the migrator used when auto-migrate is on.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (AutoMigrator, error)

	// RedisFactory opens the client for the redis session backend.
	// Default: authredis.NewClient
	RedisFactory func(ctx context.Context, addr, password string, db int) (RedisClient, error)

	// ObservabilityServerFactory creates the metrics and health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// WebServerFactory creates the web server.
	// Default: web.NewServer
	WebServerFactory func(addr string, handler http.Handler, logger *slog.Logger) WebServer
}

// Database wraps the methods used from *pgxpool.Pool.
type Database interface {
	store.Pool
	Ping(ctx context.Context) error
	Close()
}

// AutoMigrator wraps the methods used from store.Migrator on startup.
type AutoMigrator interface {
	Up() error
	Close() error
}

// RedisClient wraps the methods used from *goredis.Client.
type RedisClient interface {
	goredis.Cmdable
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// WebServer wraps the methods used from web.Server.
type WebServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
