// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package store

import (
	"embed"
	"errors"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	// Register pgx/v5 database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateIface is the part of *migrate.Migrate the Migrator uses.
type migrateIface interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Close() (source error, database error)
}

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m migrateIface
}

// Status summarizes the migration state of a database.
type Status struct {
	Version uint   `json:"version"`
	Name    string `json:"name,omitempty"`
	Dirty   bool   `json:"dirty"`
	Applied []uint `json:"applied"`
	Pending []uint `json:"pending"`
}

// MigrateURL rewrites postgres:// and postgresql:// URLs to the pgx5://
// scheme expected by the golang-migrate pgx/v5 driver.
func MigrateURL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(databaseURL, prefix); found {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// NewMigrator creates a Migrator for databaseURL.
func NewMigrator(databaseURL string) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, oops.Code("MIGRATION_SOURCE_FAILED").With("operation", "create migration source").Wrap(err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, MigrateURL(databaseURL))
	if err != nil {
		_ = source.Close() //nolint:errcheck // init error takes precedence
		return nil, oops.Code("MIGRATION_INIT_FAILED").With("operation", "initialize migrator").Wrap(err)
	}

	return &Migrator{m: m}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.Code("MIGRATION_UP_FAILED").Wrap(err)
	}
	return nil
}

// Down rolls back every migration. All tables and data are dropped.
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.Code("MIGRATION_DOWN_FAILED").Wrap(err)
	}
	return nil
}

// Steps applies n migrations; negative n rolls back.
func (m *Migrator) Steps(n int) error {
	if n == 0 {
		return nil
	}
	if err := m.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.Code("MIGRATION_STEPS_FAILED").With("steps", n).Wrap(err)
	}
	return nil
}

// Version returns the current version and whether the last migration
// failed partway. An empty database reports version 0.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, oops.Code("MIGRATION_VERSION_FAILED").Wrap(err)
	}
	return version, dirty, nil
}

// Force records version as applied without running anything. It is the
// recovery path for a dirty database.
func (m *Migrator) Force(version int) error {
	if version < 0 {
		return oops.Code("INVALID_VERSION").Errorf("version must be non-negative, got %d", version)
	}
	if err := m.m.Force(version); err != nil {
		return oops.Code("MIGRATION_FORCE_FAILED").With("version", version).Wrap(err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	switch {
	case srcErr != nil && dbErr != nil:
		return oops.Code("MIGRATION_CLOSE_FAILED").
			With("component", "both").
			Errorf("source: %v; database: %v", srcErr, dbErr)
	case srcErr != nil:
		return oops.Code("MIGRATION_CLOSE_FAILED").With("component", "source").Wrap(srcErr)
	case dbErr != nil:
		return oops.Code("MIGRATION_CLOSE_FAILED").With("component", "database").Wrap(dbErr)
	}
	return nil
}

// Status reports the current version with applied and pending migrations.
func (m *Migrator) Status() (*Status, error) {
	st, err := m.snapshot("migration status")
	if err != nil {
		return nil, err
	}
	if st.Version > 0 {
		st.Name = migrationIndex().names[st.Version]
	}
	return st, nil
}

// PendingMigrations returns the versions Up would apply, ascending.
func (m *Migrator) PendingMigrations() ([]uint, error) {
	st, err := m.snapshot("get pending migrations")
	if err != nil {
		return nil, err
	}
	return st.Pending, nil
}

// AppliedMigrations returns the applied versions, ascending.
func (m *Migrator) AppliedMigrations() ([]uint, error) {
	st, err := m.snapshot("get applied migrations")
	if err != nil {
		return nil, err
	}
	return st.Applied, nil
}

// snapshot partitions the embedded versions around the database version.
func (m *Migrator) snapshot(operation string) (*Status, error) {
	version, dirty, err := m.Version()
	if err != nil {
		return nil, oops.With("operation", operation).Wrap(err)
	}
	all, err := allMigrationVersions()
	if err != nil {
		return nil, oops.With("operation", operation).Wrap(err)
	}

	st := &Status{Version: version, Dirty: dirty}
	cut, _ := slices.BinarySearch(all, version+1)
	if cut > 0 {
		st.Applied = all[:cut]
	}
	if cut < len(all) {
		st.Pending = all[cut:]
	}
	return st, nil
}

// embeddedMigrations indexes the up migrations by version.
type embeddedMigrations struct {
	versions []uint
	names    map[uint]string
	err      error
}

var (
	indexOnce sync.Once
	index     embeddedMigrations
)

var migrationFile = regexp.MustCompile(`^(\d{6})_\w+\.up\.sql$`)

func migrationIndex() *embeddedMigrations {
	indexOnce.Do(func() { index = loadMigrationIndex() })
	return &index
}

// allMigrationVersions returns a copy of the sorted embedded versions.
func allMigrationVersions() ([]uint, error) {
	idx := migrationIndex()
	if idx.err != nil {
		return nil, idx.err
	}
	return slices.Clone(idx.versions), nil
}

// loadMigrationIndex reads the embedded directory once. Up files with an
// unexpected name are logged and skipped.
func loadMigrationIndex() embeddedMigrations {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return embeddedMigrations{
			err: oops.Code("MIGRATION_LIST_FAILED").With("operation", "read migrations dir").Wrap(err),
		}
	}

	idx := embeddedMigrations{names: make(map[uint]string, len(entries)/2)}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		match := migrationFile.FindStringSubmatch(name)
		if match == nil {
			slog.Warn("skipping migration with unexpected file name",
				"filename", name,
				"expected_format", "NNNNNN_name.up.sql")
			continue
		}
		v, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			slog.Warn("skipping migration with unparsable version", "filename", name, "error", err)
			continue
		}
		version := uint(v)
		if _, dup := idx.names[version]; dup {
			continue
		}
		idx.names[version] = strings.TrimSuffix(name, ".up.sql")
		idx.versions = append(idx.versions, version)
	}
	slices.Sort(idx.versions)
	return idx
}

// MigrationName returns the NNNNNN_name of a version, or "" when the
// version is unknown.
func MigrationName(version uint) (string, error) {
	idx := migrationIndex()
	if idx.err != nil {
		return "", idx.err
	}
	return idx.names[version], nil
}
