// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading_test

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
	"github.com/dendyaziz/quran-reader/internal/core/reading"
	"github.com/dendyaziz/quran-reader/pkg/pointer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memorySlots is an in-memory [reading.SlotStore] with injectable failures.
type memorySlots struct {
	mu        sync.Mutex
	values    map[string]string
	failGet   error
	failSet   error
	failDelete error
}

func newMemorySlots() *memorySlots {
	return &memorySlots{values: map[string]string{}}
}

func (m *memorySlots) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failGet != nil {
		return "", false, m.failGet
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memorySlots) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSet != nil {
		return m.failSet
	}
	m.values[key] = value
	return nil
}

func (m *memorySlots) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.values, key)
	return nil
}

func (m *memorySlots) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok
}

// sliceFetcher serves a synthetic remote table of n rows, ten ayahs per surah.
type sliceFetcher struct {
	mu    sync.Mutex
	rows  int
	calls int
	err   error
}

func (f *sliceFetcher) FetchRange(_ context.Context, query quran.RangeQuery) (*quran.RangeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, &quran.ProviderError{Op: "fetch range", Err: f.err}
	}

	result := &quran.RangeResult{Rows: []quran.RemoteAyah{}, Total: quran.UnknownTotal}
	for id := query.From + 1; id <= min(query.To+1, f.rows); id++ {
		result.Rows = append(result.Rows, quran.RemoteAyah{
			ID:         int64(id),
			SurahID:    (id-1)/10 + 1,
			Ayah:       pointer.To((id-1)%10 + 1),
			Arabic:     fmt.Sprintf("آيَة %d", id),
			WordsArray: `[]`,
		})
	}
	return result, nil
}

func (f *sliceFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// countingLoader wraps a page loader and records every requested page.
type countingLoader struct {
	mu    sync.Mutex
	next  reading.PageLoader
	pages []int
	err   error
	gate  chan struct{}
}

func (c *countingLoader) GetPage(ctx context.Context, page, pageSize int) ([]quran.Ayah, error) {
	c.mu.Lock()
	c.pages = append(c.pages, page)
	gate, err := c.gate, c.err
	c.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return c.next.GetPage(ctx, page, pageSize)
}

func (c *countingLoader) Pages() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.pages...)
}

func (c *countingLoader) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

var errDiskFull = errors.New("disk full")

// fixture bundles a session with its collaborators.
type fixture struct {
	session *reading.Session
	store   *quran.SQLiteStore
	fetcher *sliceFetcher
	loader  *countingLoader
	slots   *memorySlots
}

// newFixture builds a session over an empty cache whose remote dataset holds
// rows ayahs. The cache is populated by the first Initialize.
func newFixture(t *testing.T, rows int) *fixture {
	t.Helper()

	logger := discardLogger()
	store := quran.NewSQLiteStore(filepath.Join(t.TempDir(), "quran_cache.db"), logger)
	t.Cleanup(func() { _ = store.Close() })

	fetcher := &sliceFetcher{rows: rows}
	populator := quran.NewPopulator(store, fetcher, quran.PopulatorConfig{BatchSize: 50, ExpectedTotal: rows}, logger)
	loader := &countingLoader{next: quran.NewReader(store, quran.DefaultBasmallah())}
	slots := newMemorySlots()

	session := reading.NewSession(store, loader, populator, reading.NewLastReadRepository(slots, logger),
		reading.Options{PageSize: 20, ExpectedTotal: rows}, logger)

	return &fixture{session: session, store: store, fetcher: fetcher, loader: loader, slots: slots}
}

func (f *fixture) saveLastRead(t *testing.T, value string) {
	t.Helper()
	require.NoError(t, f.slots.Set(context.Background(), "lastReadAyah", value))
}

// storedIDs returns the ids of the non-marker verses in the window.
func storedIDs(state reading.State) []int {
	var ids []int
	for _, ayah := range state.Verses {
		if !ayah.Marker {
			ids = append(ids, int(ayah.ID))
		}
	}
	return ids
}

func idRange(from, to int) []int {
	ids := make([]int, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

// block makes every following page load wait until the returned func is called.
func (c *countingLoader) block() func() {
	gate := make(chan struct{})

	c.mu.Lock()
	c.gate = gate
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.gate = nil
		c.mu.Unlock()
		close(gate)
	}
}
