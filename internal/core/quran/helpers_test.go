// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dendyaziz/quran-reader/internal/core/quran"
	"github.com/dendyaziz/quran-reader/pkg/pointer"
)

// ayahsPerSurah keeps the synthetic dataset small but with many surah openings.
const ayahsPerSurah = 10

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStore opens a fresh SQLite store in the test's temp directory.
func newStore(t *testing.T) (*quran.SQLiteStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quran_cache.db")
	store := quran.NewSQLiteStore(path, discardLogger())
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

// remoteRow builds the remote form of the ayah at global position id.
func remoteRow(id int) quran.RemoteAyah {
	return quran.RemoteAyah{
		ID:              int64(id),
		SurahID:         (id-1)/ayahsPerSurah + 1,
		Ayah:            pointer.To((id-1)%ayahsPerSurah + 1),
		Arabic:          fmt.Sprintf("آيَة %d", id),
		Transliteration: fmt.Sprintf("ayah %d", id),
		Page:            (id-1)/15 + 1,
		Juz:             (id-1)/200 + 1,
		WordsArray:      quran.SerializedWords(fmt.Sprintf(`["w%d-1","w%d-2"]`, id, id)),
	}
}

func remoteRows(n int) []quran.RemoteAyah {
	rows := make([]quran.RemoteAyah, n)
	for i := range rows {
		rows[i] = remoteRow(i + 1)
	}
	return rows
}

func localRows(t *testing.T, n int) []quran.Ayah {
	t.Helper()

	ayahs := make([]quran.Ayah, n)
	for i, row := range remoteRows(n) {
		ayah, err := row.ToAyah()
		require.NoError(t, err)
		ayahs[i] = ayah
	}
	return ayahs
}

func seedStore(t *testing.T, store quran.Store, n int) {
	t.Helper()
	require.NoError(t, store.UpsertBatch(context.Background(), localRows(t, n)))
}

// fakeFetcher serves an in-memory remote table and records every query.
type fakeFetcher struct {
	mu          sync.Mutex
	rows        []quran.RemoteAyah
	total       int
	failOnBatch int
	batchSize   int
	queries     []quran.RangeQuery
}

func newFakeFetcher(rows []quran.RemoteAyah) *fakeFetcher {
	return &fakeFetcher{rows: rows, total: quran.UnknownTotal, failOnBatch: -1}
}

var errRemoteDown = errors.New("connection refused")

func (f *fakeFetcher) FetchRange(_ context.Context, query quran.RangeQuery) (*quran.RangeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)

	if f.failOnBatch >= 0 && f.batchSize > 0 && query.From/f.batchSize == f.failOnBatch {
		return nil, &quran.ProviderError{Op: "fetch range", Err: errRemoteDown}
	}

	if query.From >= len(f.rows) {
		return &quran.RangeResult{Rows: []quran.RemoteAyah{}, Total: f.total}, nil
	}

	end := min(query.To+1, len(f.rows))
	return &quran.RangeResult{Rows: f.rows[query.From:end], Total: f.total}, nil
}

func (f *fakeFetcher) Queries() []quran.RangeQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]quran.RangeQuery(nil), f.queries...)
}

// ids extracts the ids of a page for compact assertions.
func ids(ayahs []quran.Ayah) []float64 {
	result := make([]float64, len(ayahs))
	for i, ayah := range ayahs {
		result[i] = ayah.ID
	}
	return result
}

func idRange(from, to int) []float64 {
	result := make([]float64, 0, to-from+1)
	for id := from; id <= to; id++ {
		result = append(result, float64(id))
	}
	return result
}
