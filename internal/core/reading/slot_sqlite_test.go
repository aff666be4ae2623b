// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendyaziz/quran-reader/internal/core/reading"
)

/*
TestSQLiteSlotStore checks get, set, overwrite, delete and durability.
*/
func TestSQLiteSlotStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots", "reader_slots.db")
	store := reading.NewSQLiteSlotStore(path, discardLogger())
	ctx := context.Background()

	_, found, err := store.Get(ctx, "lastReadAyah")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "lastReadAyah", `{"id":1}`))
	require.NoError(t, store.Set(ctx, "lastReadAyah", `{"id":2}`))
	require.NoError(t, store.Set(ctx, "lastReadAyahId", "9"))
	require.NoError(t, store.Delete(ctx, "lastReadAyahId"))
	require.NoError(t, store.Delete(ctx, "missing"))
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close())

	reopened := reading.NewSQLiteSlotStore(path, discardLogger())
	t.Cleanup(func() { _ = reopened.Close() })

	value, found, err := reopened.Get(ctx, "lastReadAyah")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":2}`, value)

	_, found, err = reopened.Get(ctx, "lastReadAyahId")
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestSQLiteSlotStore_LegacyMigration runs the last read migration against a
real slot file.
*/
func TestSQLiteSlotStore_LegacyMigration(t *testing.T) {
	store := reading.NewSQLiteSlotStore(filepath.Join(t.TempDir(), "reader_slots.db"), discardLogger())
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "lastReadAyahId", "42"))

	got, err := reading.NewLastReadRepository(store, discardLogger()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, reading.LastRead{ID: 42}, got)

	value, found, err := store.Get(ctx, "lastReadAyah")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"id":42}`, value)

	_, found, err = store.Get(ctx, "lastReadAyahId")
	require.NoError(t, err)
	assert.False(t, found)
}
