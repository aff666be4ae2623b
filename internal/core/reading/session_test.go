// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendyaziz/quran-reader/internal/core/quran"
	"github.com/dendyaziz/quran-reader/internal/core/reading"
	"github.com/dendyaziz/quran-reader/pkg/pointer"
)

/*
TestSession_LoadInitialData_Window checks the three-page window around the
last read ayah and growing it to both ends.
*/
func TestSession_LoadInitialData_Window(t *testing.T) {
	f := newFixture(t, 200)
	f.saveLastRead(t, `{"id":90}`)
	ctx := context.Background()

	require.NoError(t, f.session.LoadInitialData(ctx))

	state := f.session.Snapshot()
	assert.Equal(t, 4, state.StartLoadedPage)
	assert.Equal(t, 6, state.EndLoadedPage)
	assert.True(t, state.HasMore)
	assert.True(t, state.HasPrevious)
	assert.Equal(t, 200, state.TotalCount)
	assert.Equal(t, 10, state.TotalPage)
	assert.Equal(t, idRange(61, 120), storedIDs(state))
	assert.Equal(t, 90, state.LastRead.ID)

	for range 4 {
		require.NoError(t, f.session.LoadMore(ctx))
	}

	state = f.session.Snapshot()
	assert.Equal(t, 10, state.EndLoadedPage)
	assert.False(t, state.HasMore)
	assert.Equal(t, idRange(61, 200), storedIDs(state))

	reads := len(f.loader.Pages())
	require.NoError(t, f.session.LoadMore(ctx))
	assert.Len(t, f.loader.Pages(), reads, "LoadMore without more pages must not read")

	for range 3 {
		require.NoError(t, f.session.LoadPrevious(ctx))
	}

	state = f.session.Snapshot()
	assert.Equal(t, 1, state.StartLoadedPage)
	assert.False(t, state.HasPrevious)
	assert.Equal(t, idRange(1, 200), storedIDs(state))

	reads = len(f.loader.Pages())
	require.NoError(t, f.session.LoadPrevious(ctx))
	assert.Len(t, f.loader.Pages(), reads, "LoadPrevious at the first page must not read")
}

/*
TestSession_LoadInitialData_Edges covers centre pages at and past the ends.
*/
func TestSession_LoadInitialData_Edges(t *testing.T) {
	tests := []struct {
		name        string
		lastRead    string
		rows        int
		pages       []int
		start       int
		end         int
		hasMore     bool
		hasPrevious bool
	}{
		{"default_position", "", 200, []int{1, 2}, 1, 2, true, false},
		{"last_page", `{"id":195}`, 200, []int{9, 10}, 9, 10, false, true},
		{"past_the_end", `{"id":5000}`, 200, []int{9, 10}, 9, 10, false, true},
		{"single_page", `{"id":3}`, 15, []int{1}, 1, 1, false, false},
		{"empty_dataset", "", 0, []int{1}, 1, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.rows)
			if tt.lastRead != "" {
				f.saveLastRead(t, tt.lastRead)
			}

			require.NoError(t, f.session.LoadInitialData(context.Background()))

			state := f.session.Snapshot()
			assert.Equal(t, tt.pages, f.loader.Pages())
			assert.Equal(t, tt.start, state.StartLoadedPage)
			assert.Equal(t, tt.end, state.EndLoadedPage)
			assert.Equal(t, tt.hasMore, state.HasMore)
			assert.Equal(t, tt.hasPrevious, state.HasPrevious)
		})
	}
}

/*
TestSession_Initialize_Population checks first-run population and progress.
*/
func TestSession_Initialize_Population(t *testing.T) {
	f := newFixture(t, 120)
	ctx := context.Background()

	before := f.session.Snapshot()
	assert.False(t, before.IsInitialized)
	assert.Equal(t, reading.Progress{Current: 0, Total: 120}, before.PopulationProgress)

	require.NoError(t, f.session.Initialize(ctx))

	state := f.session.Snapshot()
	assert.True(t, state.IsInitialized)
	assert.False(t, state.IsInitializing)
	assert.False(t, state.IsPopulating)
	assert.Equal(t, reading.Progress{Current: 120, Total: 120}, state.PopulationProgress)
	assert.Equal(t, 100, state.PopulationPercentage)
	assert.Equal(t, 120, state.TotalCount)
	assert.Equal(t, 6, state.TotalPage)

	calls := f.fetcher.Calls()
	require.NoError(t, f.session.Initialize(ctx))
	assert.Equal(t, calls, f.fetcher.Calls(), "Initialize must be idempotent")
}

/*
TestSession_Initialize_PopulationFailure checks that a failed mirror leaves
the session uninitialized and retryable.
*/
func TestSession_Initialize_PopulationFailure(t *testing.T) {
	f := newFixture(t, 60)
	f.fetcher.err = errors.New("remote down")
	ctx := context.Background()

	err := f.session.Initialize(ctx)
	require.Error(t, err)
	assert.True(t, quran.IsProviderError(err))

	state := f.session.Snapshot()
	assert.False(t, state.IsInitialized)
	assert.False(t, state.IsInitializing)
	assert.False(t, state.IsPopulating)

	populated, err := f.store.IsPopulated(ctx)
	require.NoError(t, err)
	assert.False(t, populated)

	f.fetcher.mu.Lock()
	f.fetcher.err = nil
	f.fetcher.mu.Unlock()

	require.NoError(t, f.session.LoadInitialData(ctx))
	assert.Equal(t, 60, f.session.Snapshot().TotalCount)
}

/*
TestSession_Initialize_PopulatedCache checks that a populated cache is not
mirrored again.
*/
func TestSession_Initialize_PopulatedCache(t *testing.T) {
	f := newFixture(t, 40)
	ctx := context.Background()

	require.NoError(t, f.store.MarkPopulated(ctx))
	require.NoError(t, f.session.Initialize(ctx))

	assert.Zero(t, f.fetcher.Calls())
	assert.Zero(t, f.session.Snapshot().TotalCount)
}

/*
TestSession_LoadMore_Error checks that a failed load leaves the window unchanged.
*/
func TestSession_LoadMore_Error(t *testing.T) {
	f := newFixture(t, 200)
	ctx := context.Background()
	require.NoError(t, f.session.LoadInitialData(ctx))

	before := f.session.Snapshot()
	f.loader.setErr(errDiskFull)

	assert.ErrorIs(t, f.session.LoadMore(ctx), errDiskFull)
	assert.Equal(t, before, f.session.Snapshot())
}

/*
TestSession_LoadMore_DroppedWhileInFlight checks that concurrent window loads
collapse into one.
*/
func TestSession_LoadMore_DroppedWhileInFlight(t *testing.T) {
	f := newFixture(t, 200)
	ctx := context.Background()
	require.NoError(t, f.session.LoadInitialData(ctx))

	reads := len(f.loader.Pages())
	release := f.loader.block()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, f.session.LoadMore(ctx))
	}()

	require.Eventually(t, func() bool { return len(f.loader.Pages()) == reads+1 }, time.Second, 5*time.Millisecond)

	assert.NoError(t, f.session.LoadMore(ctx))
	assert.NoError(t, f.session.LoadPrevious(ctx))
	assert.True(t, f.session.Snapshot().IsLoading)

	release()
	wg.Wait()

	assert.Len(t, f.loader.Pages(), reads+1)
	state := f.session.Snapshot()
	assert.Equal(t, 3, state.EndLoadedPage)
	assert.False(t, state.IsLoading)
}

/*
TestSession_Refresh checks that the window is rebuilt around the last read ayah.
*/
func TestSession_Refresh(t *testing.T) {
	f := newFixture(t, 200)
	f.saveLastRead(t, `{"id":90}`)
	ctx := context.Background()

	require.NoError(t, f.session.LoadInitialData(ctx))
	require.NoError(t, f.session.LoadMore(ctx))
	require.NoError(t, f.session.LoadPrevious(ctx))

	require.NoError(t, f.session.Refresh(ctx))

	state := f.session.Snapshot()
	assert.Equal(t, 4, state.StartLoadedPage)
	assert.Equal(t, 6, state.EndLoadedPage)
	assert.Equal(t, idRange(61, 120), storedIDs(state))
}

/*
TestSession_ClearCache checks the full re-mirror and that the position survives.
*/
func TestSession_ClearCache(t *testing.T) {
	f := newFixture(t, 200)
	ctx := context.Background()

	require.NoError(t, f.session.LoadInitialData(ctx))
	calls := f.fetcher.Calls()

	f.session.UpdateLastReadPosition(ctx, 150, pointer.To(10))

	require.NoError(t, f.session.ClearCache(ctx))

	assert.Greater(t, f.fetcher.Calls(), calls)

	state := f.session.Snapshot()
	assert.True(t, state.IsInitialized)
	assert.False(t, state.IsLoading)
	assert.Equal(t, 200, state.TotalCount)
	assert.Equal(t, 150, state.LastRead.ID)
	assert.Equal(t, 7, state.StartLoadedPage)
	assert.Equal(t, 9, state.EndLoadedPage)
}

/*
TestSession_UpdateLastReadPosition checks persistence and failure tolerance.
*/
func TestSession_UpdateLastReadPosition(t *testing.T) {
	f := newFixture(t, 20)
	ctx := context.Background()

	got := f.session.UpdateLastReadPosition(ctx, 42, pointer.To(2))
	assert.Equal(t, reading.LastRead{ID: 42, Ayah: pointer.To(2)}, got)

	saved, ok := f.slots.value("lastReadAyah")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":42,"ayah":2}`, saved)

	f.slots.failSet = errDiskFull
	got = f.session.UpdateLastReadPosition(ctx, 43, nil)
	assert.Equal(t, reading.LastRead{ID: 43}, got)
	assert.Equal(t, 43, f.session.Snapshot().LastRead.ID)

	saved, _ = f.slots.value("lastReadAyah")
	assert.JSONEq(t, `{"id":42,"ayah":2}`, saved)
}

/*
TestSession_Reset checks that every field returns to its initial value.
*/
func TestSession_Reset(t *testing.T) {
	f := newFixture(t, 200)
	ctx := context.Background()
	initial := f.session.Snapshot()

	require.NoError(t, f.session.LoadInitialData(ctx))
	f.session.UpdateLastReadPosition(ctx, 77, nil)

	f.session.Reset()

	assert.Equal(t, initial, f.session.Snapshot())
}

/*
TestProgress_Percentage checks rounding and the empty total.
*/
func TestProgress_Percentage(t *testing.T) {
	tests := []struct {
		progress reading.Progress
		want     int
	}{
		{reading.Progress{Current: 0, Total: 6236}, 0},
		{reading.Progress{Current: 1000, Total: 6236}, 16},
		{reading.Progress{Current: 3118, Total: 6236}, 50},
		{reading.Progress{Current: 6236, Total: 6236}, 100},
		{reading.Progress{Current: 5, Total: 0}, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.progress.Percentage())
	}
}
