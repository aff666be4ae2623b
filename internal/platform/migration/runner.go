// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration provides a thin wrapper around golang-migrate for
// running schema migrations against the local SQLite files.
//
// # Architecture
//
// Each store embeds its own migrations directory and hands it to [RunUp] on
// open. Migrations only ever add structure, so opening a file written by an
// older schema version upgrades it in place and keeps its rows.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// RunUp applies all pending UP migrations found in dir of fsys to db.
//
// # Parameters
//   - db: An open SQLite handle. It stays open after RunUp returns.
//   - fsys: Filesystem holding the migration files (usually an embed.FS).
//   - dir: Directory inside fsys.
//   - logger: Structured logger for migration events.
//
// # Returns
//   - uint: The schema version after the run.
//   - error: Initialization, dirty state or migration failures.
func RunUp(db *sql.DB, fsys fs.FS, dir string, logger *slog.Logger) (uint, error) {
	source, err := iofs.New(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("migration: failed to read migrations: %w", err)
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", closeErr))
		}
	}()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("migration: failed to initialize driver: %w", err)
	}

	// The migrator is never closed; closing it closes db, which the caller owns.
	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("migration: failed to initialize: %w", err)
	}

	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return currentVersion, fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", currentVersion)
	}

	logger.Debug("migration_started", slog.Int("current_version", int(currentVersion)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("migration_already_up_to_date", slog.Int("version", int(currentVersion)))
			return currentVersion, nil
		}
		return currentVersion, fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return newVersion, nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
