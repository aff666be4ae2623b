// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dendyaziz/quran-reader/internal/platform/database/schema"
	"github.com/dendyaziz/quran-reader/internal/platform/migration"
	"github.com/dendyaziz/quran-reader/internal/platform/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteSlotStore implements [SlotStore] in its own SQLite file, apart from
// the verse cache so that clearing the cache keeps the reading position.
type SQLiteSlotStore struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteSlotStore constructs a slot store backed by the file at path.
func NewSQLiteSlotStore(path string, logger *slog.Logger) *SQLiteSlotStore {
	return &SQLiteSlotStore{path: path, logger: logger}
}

func (store *SQLiteSlotStore) handle(ctx context.Context) (*sql.DB, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.db != nil {
		return store.db, nil
	}

	db, err := sqlite.Open(ctx, store.path, store.logger)
	if err != nil {
		return nil, fmt.Errorf("slot store: %w", err)
	}

	if _, err := migration.RunUp(db, migrationsFS, "migrations", store.logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("slot store: %w", err)
	}

	store.db = db
	return db, nil
}

// Get implements [SlotStore].
func (store *SQLiteSlotStore) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := store.handle(ctx)
	if err != nil {
		return "", false, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		schema.ReaderSlot.Value, schema.ReaderSlot.Table, schema.ReaderSlot.Key)

	var value string
	err = db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("slot store: get %s: %w", key, err)
	}

	return value, true, nil
}

// Set implements [SlotStore].
func (store *SQLiteSlotStore) Set(ctx context.Context, key, value string) error {
	db, err := store.handle(ctx)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES (?, ?, ?)
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = excluded.%[3]s, %[4]s = excluded.%[4]s`,
		schema.ReaderSlot.Table, schema.ReaderSlot.Key, schema.ReaderSlot.Value, schema.ReaderSlot.UpdatedAt)

	if _, err := db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("slot store: set %s: %w", key, err)
	}

	return nil
}

// Delete implements [SlotStore].
func (store *SQLiteSlotStore) Delete(ctx context.Context, key string) error {
	db, err := store.handle(ctx)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, schema.ReaderSlot.Table, schema.ReaderSlot.Key)
	if _, err := db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("slot store: delete %s: %w", key, err)
	}

	return nil
}

// Ping verifies the slot file is reachable.
func (store *SQLiteSlotStore) Ping(ctx context.Context) error {
	db, err := store.handle(ctx)
	if err != nil {
		return err
	}
	return sqlite.Ping(ctx, db)
}

// Close releases the underlying handle.
func (store *SQLiteSlotStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.db == nil {
		return nil
	}

	err := store.db.Close()
	store.db = nil
	return err
}
