// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

//go:build integration

// Package storetest starts a migrated PostgreSQL container for integration
// tests.
package storetest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/liftlog/liftlog/internal/store"
)

// Database is a running, migrated PostgreSQL instance.
type Database struct {
	URL  string
	Pool *pgxpool.Pool

	container *postgres.PostgresContainer
}

// StartPostgres starts a container, applies every migration and opens a pool.
func StartPostgres(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("liftlog_test"),
		postgres.WithUsername("liftlog"),
		postgres.WithPassword("liftlog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, oops.With("operation", "start postgres container").Wrap(err)
	}

	db := &Database{container: container}
	if db.URL, err = container.ConnectionString(ctx, "sslmode=disable"); err != nil {
		db.Terminate(ctx)
		return nil, oops.With("operation", "container connection string").Wrap(err)
	}

	if err := Migrate(db.URL); err != nil {
		db.Terminate(ctx)
		return nil, err
	}

	if db.Pool, err = store.Connect(ctx, db.URL, store.DefaultConnectAttempts); err != nil {
		db.Terminate(ctx)
		return nil, err
	}
	return db, nil
}

// Migrate applies every embedded migration to databaseURL.
func Migrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()
	return migrator.Up()
}

// Truncate empties every application table.
func (d *Database) Truncate(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, `TRUNCATE exercises, workouts, web_sessions, users CASCADE`)
	return err
}

// Terminate closes the pool and stops the container.
func (d *Database) Terminate(ctx context.Context) {
	if d.Pool != nil {
		d.Pool.Close()
	}
	if d.container != nil {
		_ = d.container.Terminate(ctx)
	}
}
