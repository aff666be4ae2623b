// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package quran mirrors the Quran verse dataset into a local SQLite file and
serves it back in fixed-size pages.

The package is organised around four pieces:
  - Store: the on-device mirror (SQLite via modernc.org/sqlite).
  - RangeFetcher: the remote dataset, read in inclusive row ranges.
  - Populator: copies the remote dataset into the Store in ordered batches.
  - Reader: serves pages from the Store and inserts basmallah markers.
*/
package quran

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dendyaziz/quran-reader/internal/platform/constants"
	"github.com/dendyaziz/quran-reader/internal/platform/database/schema"
	"github.com/dendyaziz/quran-reader/internal/platform/dberr"
	"github.com/dendyaziz/quran-reader/internal/platform/migration"
	"github.com/dendyaziz/quran-reader/internal/platform/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// # SQLite Repository

// SQLiteStore implements [Store] on a single SQLite file.
type SQLiteStore struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	db      *sql.DB
	version uint
}

// NewSQLiteStore constructs a store backed by the file at path. Nothing is
// opened until the first operation.
func NewSQLiteStore(path string, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{path: path, logger: logger}
}

// Open implements [Store].
func (store *SQLiteStore) Open(ctx context.Context) error {
	_, err := store.handle(ctx)
	return err
}

// handle returns the open database, opening and migrating it on first use.
// Concurrent callers wait for the first open to finish.
func (store *SQLiteStore) handle(ctx context.Context) (*sql.DB, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.db != nil {
		return store.db, nil
	}

	db, err := sqlite.Open(ctx, store.path, store.logger)
	if err != nil {
		return nil, storeErr("open", err)
	}

	version, err := migration.RunUp(db, migrationsFS, "migrations", store.logger)
	if err != nil {
		_ = db.Close()
		return nil, storeErr("migrate", err)
	}

	store.db = db
	store.version = version

	store.logger.Info("verse_store_opened",
		slog.String("path", store.path),
		slog.Int("schema_version", int(version)),
	)

	return db, nil
}

// SchemaVersion returns the migration version applied on open, or 0 when the
// store has not been opened yet.
func (store *SQLiteStore) SchemaVersion() uint {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.version
}

// # Population Metadata

// IsPopulated implements [Store].
func (store *SQLiteStore) IsPopulated(ctx context.Context) (bool, error) {
	db, err := store.handle(ctx)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		schema.Metadata.Value, schema.Metadata.Table, schema.Metadata.Key)

	var raw string
	err = db.QueryRowContext(ctx, query, constants.MetadataKeyPopulated).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("read population flag", err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		store.logger.Warn("population_flag_unreadable", slog.String("value", raw), slog.Any("error", err))
		return false, nil
	}

	return truthy(value), nil
}

// MarkPopulated implements [Store].
func (store *SQLiteStore) MarkPopulated(ctx context.Context) error {
	db, err := store.handle(ctx)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES (?, ?, ?)
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = excluded.%[3]s, %[4]s = excluded.%[4]s`,
		schema.Metadata.Table, schema.Metadata.Key, schema.Metadata.Value, schema.Metadata.LastUpdated)

	if _, err := db.ExecContext(ctx, query, constants.MetadataKeyPopulated, "true", time.Now().UTC()); err != nil {
		return storeErr("mark populated", err)
	}

	return nil
}

// # Verse Rows

// Count implements [Store].
func (store *SQLiteStore) Count(ctx context.Context) (int, error) {
	db, err := store.handle(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.QuranAyah.Table)
	if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, storeErr("count", err)
	}

	return count, nil
}

// UpsertBatch implements [Store].
func (store *SQLiteStore) UpsertBatch(ctx context.Context, ayahs []Ayah) error {
	if len(ayahs) == 0 {
		return nil
	}

	db, err := store.handle(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin batch", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertQuery())
	if err != nil {
		return storeErr("prepare batch", err)
	}
	defer stmt.Close()

	for _, ayah := range ayahs {
		id, err := ayah.StorageID()
		if err != nil {
			return storeErr("upsert batch", err)
		}

		words := ayah.WordsArray
		if words == nil {
			words = []string{}
		}
		encoded, err := json.Marshal(words)
		if err != nil {
			return storeErr("encode words_array", err)
		}

		_, err = stmt.ExecContext(ctx,
			id,
			ayah.SurahID,
			ayah.Ayah,
			ayah.Arabic,
			ayah.Transliteration,
			ayah.Page,
			ayah.Juz,
			ayah.Position,
			ayah.RowNumberStart,
			ayah.RowNumberEnd,
			ayah.QuarterHizb,
			ayah.Manzil,
			ayah.NoTashkeel,
			ayah.HasAsbabun,
			string(encoded),
		)
		if err != nil {
			return storeErr(fmt.Sprintf("upsert ayah %d", id), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit batch", err)
	}

	return nil
}

// ReadOrderedSlice implements [Store].
func (store *SQLiteStore) ReadOrderedSlice(ctx context.Context, skip, take int) ([]Ayah, error) {
	if take <= 0 {
		return []Ayah{}, nil
	}
	if skip < 0 {
		skip = 0
	}

	db, err := store.handle(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC LIMIT ? OFFSET ?`,
		strings.Join(schema.QuranAyah.Columns(), ", "), schema.QuranAyah.Table, schema.QuranAyah.ID)

	rows, err := db.QueryContext(ctx, query, take, skip)
	if err != nil {
		return nil, storeErr("read slice", err)
	}
	defer rows.Close()

	ayahs, err := scanAyahs(rows)
	if err != nil {
		return nil, storeErr("read slice", err)
	}

	return ayahs, nil
}

// ClearAll implements [Store].
func (store *SQLiteStore) ClearAll(ctx context.Context) error {
	db, err := store.handle(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin clear", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{schema.QuranAyah.Table, schema.Metadata.Table} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return storeErr("clear "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit clear", err)
	}

	store.logger.Info("verse_store_cleared", slog.String("path", store.path))

	return nil
}

// Get implements [Store].
func (store *SQLiteStore) Get(ctx context.Context, id int) (*Ayah, error) {
	db, err := store.handle(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		strings.Join(schema.QuranAyah.Columns(), ", "), schema.QuranAyah.Table, schema.QuranAyah.ID)

	ayah, err := scanAyah(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dberr.Wrap(err, "Ayah")
	}
	if err != nil {
		return nil, storeErr("get ayah", err)
	}

	return &ayah, nil
}

// ListBySurah implements [Store].
func (store *SQLiteStore) ListBySurah(ctx context.Context, surahID int) ([]Ayah, error) {
	db, err := store.handle(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY %s ASC`,
		strings.Join(schema.QuranAyah.Columns(), ", "), schema.QuranAyah.Table,
		schema.QuranAyah.SurahID, schema.QuranAyah.ID)

	rows, err := db.QueryContext(ctx, query, surahID)
	if err != nil {
		return nil, storeErr("list surah", err)
	}
	defer rows.Close()

	ayahs, err := scanAyahs(rows)
	if err != nil {
		return nil, storeErr("list surah", err)
	}

	return ayahs, nil
}

// # Lifecycle

// Ping implements [Store].
func (store *SQLiteStore) Ping(ctx context.Context) error {
	db, err := store.handle(ctx)
	if err != nil {
		return err
	}
	return storeErr("ping", sqlite.Ping(ctx, db))
}

// Close implements [Store].
func (store *SQLiteStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.db == nil {
		return nil
	}

	err := store.db.Close()
	store.db = nil

	return storeErr("close", err)
}

// # Helpers

func upsertQuery() string {
	columns := schema.QuranAyah.Columns()

	placeholders := make([]string, len(columns))
	updates := make([]string, 0, len(columns)-1)
	for i, column := range columns {
		placeholders[i] = "?"
		if column != schema.QuranAyah.ID {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", column, column))
		}
	}

	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
		schema.QuranAyah.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		schema.QuranAyah.ID,
		strings.Join(updates, ", "),
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAyah hydrates one row selected with [schema.QuranAyahTable.Columns].
func scanAyah(row rowScanner) (Ayah, error) {
	var (
		ayah  Ayah
		id    int64
		words string
	)

	err := row.Scan(
		&id,
		&ayah.SurahID,
		&ayah.Ayah,
		&ayah.Arabic,
		&ayah.Transliteration,
		&ayah.Page,
		&ayah.Juz,
		&ayah.Position,
		&ayah.RowNumberStart,
		&ayah.RowNumberEnd,
		&ayah.QuarterHizb,
		&ayah.Manzil,
		&ayah.NoTashkeel,
		&ayah.HasAsbabun,
		&words,
	)
	if err != nil {
		return Ayah{}, err
	}

	ayah.ID = float64(id)
	if ayah.WordsArray, err = SerializedWords(words).Decode(); err != nil {
		return Ayah{}, err
	}

	return ayah, nil
}

func scanAyahs(rows *sql.Rows) ([]Ayah, error) {
	ayahs := []Ayah{}
	for rows.Next() {
		ayah, err := scanAyah(rows)
		if err != nil {
			return nil, err
		}
		ayahs = append(ayahs, ayah)
	}

	return ayahs, rows.Err()
}

// truthy mirrors how the population flag has always been interpreted: any
// JSON value other than false, 0, "", or null counts as set.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case float64:
		return typed != 0
	case string:
		return typed != ""
	default:
		return true
	}
}
