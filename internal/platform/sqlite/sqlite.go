// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite opens the local SQLite files used by the reader.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It owns driver selection
// (pure Go modernc.org/sqlite, no cgo) and the connection settings every local
// store shares. Schema management lives with each store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver, registers "sqlite".
	_ "modernc.org/sqlite"
)

const (
	// busyTimeout is how long a writer waits on a locked database.
	busyTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Open creates the parent directory if needed, opens path and applies the
// shared pragmas.
//
// The pool is limited to one connection: SQLite serializes writers anyway and a
// single connection keeps every statement on the same transaction view.
//
// # Parameters
//   - ctx: Context for the initial ping.
//   - path: Filesystem path of the database file.
//   - logger: Structured logger for connection events.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: failed to create directory %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("sqlite_opened", slog.String("path", path))

	return db, nil
}

// Ping verifies that the SQLite handle is usable.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return nil
}
