// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/liftlog/liftlog/internal/auth"
	authpg "github.com/liftlog/liftlog/internal/auth/postgres"
	authredis "github.com/liftlog/liftlog/internal/auth/redis"
	"github.com/liftlog/liftlog/internal/config"
	"github.com/liftlog/liftlog/internal/logging"
	"github.com/liftlog/liftlog/internal/observability"
	"github.com/liftlog/liftlog/internal/store"
	"github.com/liftlog/liftlog/internal/web"
	"github.com/liftlog/liftlog/internal/workout"
	workoutpg "github.com/liftlog/liftlog/internal/workout/postgres"
)

const (
	serviceName     = "liftlog"
	shutdownTimeout = 5 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the LiftLog web server",
		Long: `Start the web server. Pending database migrations are applied first
unless database.auto_migrate is false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(loadOptions(cmd))
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	deps = withDefaultServeDeps(deps)

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault(serviceName, version, cfg.Log.Format, level)

	logger.Info("starting liftlog",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"sessions_backend", cfg.Sessions.Backend,
	)

	db, err := deps.DatabaseFactory(ctx, cfg.Database.URL, cfg.Database.ConnectAttempts)
	if err != nil {
		return oops.With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.Info("connected to database")

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(cfg.Database.URL, deps.MigratorFactory, logger); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, db.Ping)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	users := authpg.NewUserRepository(db)
	sessionRepo, closeSessions, err := newSessionRepository(ctx, cfg, db, deps)
	if err != nil {
		stopServer(obsServer, "observability")
		return err
	}
	defer closeSessions()

	authService, err := auth.NewServiceWithLogger(users, auth.NewBcryptHasher(cfg.Auth.BcryptCost), logger)
	if err != nil {
		stopServer(obsServer, "observability")
		return err
	}

	storeOpts := []auth.SessionStoreOption{auth.WithSessionLogger(logger)}
	if metrics != nil {
		storeOpts = append(storeOpts, auth.WithSweepObserver(metrics.ObserveSweep))
	}
	sessionStore, err := auth.NewSessionStore(auth.SessionConfig{
		TTL:             cfg.Sessions.TTL.Std(),
		CleanupInterval: cfg.Sessions.CleanupInterval.Std(),
	}, sessionRepo, users, storeOpts...)
	if err != nil {
		stopServer(obsServer, "observability")
		return err
	}

	workoutService, err := workout.NewServiceWithLogger(
		workoutpg.NewWorkoutRepository(db),
		workoutpg.NewExerciseRepository(db),
		logger,
	)
	if err != nil {
		stopServer(obsServer, "observability")
		return err
	}

	handler, err := web.New(web.Options{
		SessionSecret: []byte(cfg.HTTP.SessionSecret),
		SecureCookies: cfg.HTTP.SecureCookies,
		CookieMaxAge:  cfg.Sessions.TTL.Std(),
	}, web.Deps{
		Auth:     authService,
		Sessions: sessionStore,
		Workouts: workoutService,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		stopServer(obsServer, "observability")
		return err
	}

	webServer := deps.WebServerFactory(cfg.HTTP.Addr, handler.Routes(), logger)
	webErrCh, err := webServer.Start()
	if err != nil {
		stopServer(obsServer, "observability")
		return oops.With("operation", "start web server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")

	sessionStore.StartCleaner(ctx)
	defer sessionStore.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("LiftLog listening on " + webServer.Addr())
	logger.Info("liftlog ready", "http_addr", webServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopServer(webServer, "web")
	stopServer(obsServer, "observability")

	logger.Info("shutdown complete")
	return nil
}

func withDefaultServeDeps(deps *ServeDeps) *ServeDeps {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.DatabaseFactory == nil {
		deps.DatabaseFactory = func(ctx context.Context, url string, attempts int) (Database, error) {
			pool, err := store.Connect(ctx, url, attempts)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(url string) (AutoMigrator, error) {
			return store.NewMigrator(url)
		}
	}
	if deps.RedisFactory == nil {
		deps.RedisFactory = func(ctx context.Context, addr, password string, db int) (RedisClient, error) {
			client, err := authredis.NewClient(ctx, addr, password, db)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.WebServerFactory == nil {
		deps.WebServerFactory = func(addr string, handler http.Handler, logger *slog.Logger) WebServer {
			return web.NewServer(addr, handler, logger)
		}
	}
	return deps
}

// autoMigrate applies pending migrations and always closes the migrator.
func autoMigrate(url string, factory func(string) (AutoMigrator, error), logger *slog.Logger) error {
	migrator, err := factory(url)
	if err != nil {
		return oops.With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.With("operation", "auto-migrate").Wrap(err)
	}
	logger.Info("database migrations applied")
	return nil
}

// newSessionRepository returns the configured session backend and a func
// releasing its resources.
func newSessionRepository(ctx context.Context, cfg *config.Config, db Database, deps *ServeDeps) (auth.SessionRepository, func(), error) {
	switch cfg.Sessions.Backend {
	case config.BackendRedis:
		client, err := deps.RedisFactory(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, oops.With("operation", "connect to redis").Wrap(err)
		}
		slog.Info("using redis session backend", "addr", cfg.Redis.Addr)
		return authredis.NewSessionRepository(client), func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close redis client", "error", err)
			}
		}, nil
	default:
		return authpg.NewSessionRepository(db), func() {}, nil
	}
}

type stoppable interface {
	Stop(ctx context.Context) error
}

// stopServer stops srv with the shutdown timeout. A nil srv is a no-op.
func stopServer(srv stoppable, name string) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
