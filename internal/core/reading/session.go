// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reading keeps the reader's sliding window over the verse cache.

A [Session] holds a contiguous run of loaded pages around the last read
position and grows it in either direction on demand. It also owns the
first-run population of the cache and the persistence of the reading
position.

# Lifecycle

	uninitialized → initializing → ready

Initialization loads the saved position, opens the cache, mirrors the remote
dataset when the cache is empty, then counts the cached rows.
*/
package reading

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/dendyaziz/quran-reader/internal/core/quran"
	"github.com/dendyaziz/quran-reader/internal/platform/constants"
	"github.com/dendyaziz/quran-reader/pkg/pagination"
)

// # Dependencies

// VerseStore is the part of the verse cache the session manages.
type VerseStore interface {
	Open(context context.Context) error
	IsPopulated(context context.Context) (bool, error)
	Count(context context.Context) (int, error)
	ClearAll(context context.Context) error
}

// PageLoader reads one page of marker-injected ayahs.
type PageLoader interface {
	GetPage(context context.Context, page, pageSize int) ([]quran.Ayah, error)
}

// Populator mirrors the remote dataset into the cache.
type Populator interface {
	Populate(context context.Context, onProgress quran.ProgressFunc) error
}

// # State

// Progress is the state of a population run.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Percentage returns Current/Total as a rounded percentage, or 0 without a total.
func (p Progress) Percentage() int {
	if p.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(p.Current) / float64(p.Total) * 100))
}

// State is a point-in-time copy of a [Session].
type State struct {
	Verses          []quran.Ayah `json:"verses"`
	LastRead        LastRead     `json:"last_read"`
	StartLoadedPage int          `json:"start_loaded_page"`
	EndLoadedPage   int          `json:"end_loaded_page"`
	PageSize        int          `json:"page_size"`
	TotalPage       int          `json:"total_page"`
	TotalCount      int          `json:"total_count"`
	HasMore         bool         `json:"has_more"`
	HasPrevious     bool         `json:"has_previous"`

	IsInitialized  bool `json:"is_initialized"`
	IsInitializing bool `json:"is_initializing"`
	IsLoading      bool `json:"is_loading"`
	IsPopulating   bool `json:"is_populating"`

	PopulationProgress   Progress `json:"population_progress"`
	PopulationPercentage int      `json:"population_percentage"`
}

// Options configures a [Session].
type Options struct {
	PageSize      int
	ExpectedTotal int
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = constants.DefaultPageSize
	}
	if o.ExpectedTotal <= 0 {
		o.ExpectedTotal = constants.DefaultExpectedTotal
	}
	return o
}

func initialState(options Options) State {
	return State{
		Verses:             []quran.Ayah{},
		LastRead:           DefaultLastRead(),
		StartLoadedPage:    1,
		EndLoadedPage:      1,
		PageSize:           options.PageSize,
		HasMore:            true,
		HasPrevious:        true,
		PopulationProgress: Progress{Current: 0, Total: options.ExpectedTotal},
	}
}

// # Session

// Session is the reader's window over the verse cache.
//
// # Concurrency
//
// All methods are safe for concurrent use. Window loads are serialized: a
// LoadMore or LoadPrevious issued while another load is running is dropped,
// while Initialize, LoadInitialData, Refresh and ClearCache wait their turn.
type Session struct {
	store     VerseStore
	pages     PageLoader
	populator Populator
	lastRead  *LastReadRepository
	options   Options
	logger    *slog.Logger

	// operation serializes every action that loads or rewrites the window.
	operation sync.Mutex

	mu      sync.Mutex
	state   State
	loading int
}

// NewSession constructs an uninitialized session.
func NewSession(store VerseStore, pages PageLoader, populator Populator, lastRead *LastReadRepository, options Options, logger *slog.Logger) *Session {
	options = options.withDefaults()

	return &Session{
		store:     store,
		pages:     pages,
		populator: populator,
		lastRead:  lastRead,
		options:   options,
		logger:    logger,
		state:     initialState(options),
	}
}

// Snapshot returns a copy of the current state.
func (session *Session) Snapshot() State {
	session.mu.Lock()
	defer session.mu.Unlock()

	snapshot := session.state
	snapshot.Verses = slices.Clone(session.state.Verses)
	snapshot.IsLoading = session.loading > 0
	snapshot.PopulationPercentage = snapshot.PopulationProgress.Percentage()

	return snapshot
}

// Reset restores every field to its initial value.
func (session *Session) Reset() {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.state = initialState(session.options)
	session.loading = 0
}

// update applies fn to the state under the state lock.
func (session *Session) update(fn func(state *State)) {
	session.mu.Lock()
	defer session.mu.Unlock()
	fn(&session.state)
}

func (session *Session) current() State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

// # Initialization

/*
Initialize prepares the cache and counts its rows. It does nothing once the
session is initialized.

Returns:
  - error: Cache or population failures; the session stays uninitialized
*/
func (session *Session) Initialize(ctx context.Context) error {
	session.operation.Lock()
	defer session.operation.Unlock()

	return session.initialize(ctx)
}

func (session *Session) initialize(ctx context.Context) error {
	if session.current().IsInitialized {
		return nil
	}

	session.update(func(state *State) { state.IsInitializing = true })
	defer session.update(func(state *State) { state.IsInitializing = false })

	lastRead, err := session.lastRead.Load(ctx)
	if err != nil {
		session.logger.Warn("last_read_load_failed", slog.Any("error", err))
	}
	session.update(func(state *State) { state.LastRead = lastRead })

	if err := session.store.Open(ctx); err != nil {
		return session.failInitialize(err)
	}

	populated, err := session.store.IsPopulated(ctx)
	if err != nil {
		return session.failInitialize(err)
	}

	if !populated {
		if err := session.populate(ctx); err != nil {
			return session.failInitialize(err)
		}
	}

	count, err := session.store.Count(ctx)
	if err != nil {
		return session.failInitialize(err)
	}

	session.update(func(state *State) {
		state.TotalCount = count
		state.TotalPage = pagination.TotalPages(count, state.PageSize)
		state.IsInitialized = true
	})

	session.logger.Info("session_initialized",
		slog.Int("total_count", count),
		slog.Int("last_read_id", lastRead.ID),
	)

	return nil
}

func (session *Session) failInitialize(err error) error {
	session.logger.Error("session_initialize_failed", slog.Any("error", err))
	return err
}

// populate runs the pipeline with progress tracking.
func (session *Session) populate(ctx context.Context) error {
	session.update(func(state *State) {
		state.IsPopulating = true
		state.PopulationProgress = Progress{Current: 0, Total: session.options.ExpectedTotal}
	})
	defer session.update(func(state *State) { state.IsPopulating = false })

	return session.populator.Populate(ctx, func(current, total int) {
		session.update(func(state *State) {
			state.PopulationProgress = Progress{Current: current, Total: total}
		})
	})
}

// # Window Loading

// loadPage reads one page while the loading flag is raised.
func (session *Session) loadPage(ctx context.Context, page int) ([]quran.Ayah, error) {
	session.mu.Lock()
	session.loading++
	pageSize := session.state.PageSize
	session.mu.Unlock()

	defer func() {
		session.mu.Lock()
		session.loading = max(session.loading-1, 0)
		session.mu.Unlock()
	}()

	return session.pages.GetPage(ctx, page, pageSize)
}

/*
LoadInitialData initializes the session and loads up to three pages centred
on the page holding the last read ayah.

Description: The centre page is clamped to the cached range, so a saved
position past the end of the data opens the last page.
*/
func (session *Session) LoadInitialData(ctx context.Context) error {
	session.operation.Lock()
	defer session.operation.Unlock()

	return session.loadInitialData(ctx)
}

func (session *Session) loadInitialData(ctx context.Context) error {
	if err := session.initialize(ctx); err != nil {
		return err
	}

	window := session.current()
	center := min(pagination.PageOf(window.LastRead.ID, window.PageSize), max(window.TotalPage, 1))

	verses := []quran.Ayah{}
	start, end := center, center

	if center > 1 {
		previous, err := session.loadPage(ctx, center-1)
		if err != nil {
			return err
		}
		verses = append(verses, previous...)
		start = center - 1
	}

	page, err := session.loadPage(ctx, center)
	if err != nil {
		return err
	}
	verses = append(verses, page...)

	if center < window.TotalPage {
		next, err := session.loadPage(ctx, center+1)
		if err != nil {
			return err
		}
		verses = append(verses, next...)
		end = center + 1
	}

	session.update(func(state *State) {
		state.Verses = verses
		state.StartLoadedPage = start
		state.EndLoadedPage = end
		state.HasMore = end < state.TotalPage
		state.HasPrevious = start > 1
	})

	session.logger.Debug("window_loaded",
		slog.Int("start_page", start),
		slog.Int("end_page", end),
		slog.Int("verses", len(verses)),
	)

	return nil
}

/*
LoadMore appends the page after the window.

Description: Dropped when there is nothing more or another window load is
running. An empty page ends the window. On error the state is unchanged.
*/
func (session *Session) LoadMore(ctx context.Context) error {
	if !session.operation.TryLock() {
		return nil
	}
	defer session.operation.Unlock()

	window := session.current()
	if !window.HasMore {
		return nil
	}

	next := window.EndLoadedPage + 1
	verses, err := session.loadPage(ctx, next)
	if err != nil {
		return err
	}

	session.update(func(state *State) {
		if len(verses) == 0 {
			state.HasMore = false
			return
		}
		state.Verses = append(state.Verses, verses...)
		state.EndLoadedPage = next
		state.HasMore = next < state.TotalPage
	})

	return nil
}

/*
LoadPrevious prepends the page before the window.

Description: Dropped when there is nothing before, the window already starts
at the first page, or another window load is running.
*/
func (session *Session) LoadPrevious(ctx context.Context) error {
	if !session.operation.TryLock() {
		return nil
	}
	defer session.operation.Unlock()

	window := session.current()
	if !window.HasPrevious || window.StartLoadedPage <= 1 {
		return nil
	}

	previous := window.StartLoadedPage - 1
	verses, err := session.loadPage(ctx, previous)
	if err != nil {
		return err
	}

	session.update(func(state *State) {
		if len(verses) == 0 {
			state.HasPrevious = false
			return
		}
		state.Verses = append(slices.Clone(verses), state.Verses...)
		state.StartLoadedPage = previous
		state.HasPrevious = previous > 1
	})

	return nil
}

// resetWindow empties the loaded window.
func resetWindow(state *State) {
	state.Verses = []quran.Ayah{}
	state.StartLoadedPage = 1
	state.EndLoadedPage = 1
	state.HasMore = true
	state.HasPrevious = true
}

// Refresh drops the loaded window and loads it again around the last read ayah.
func (session *Session) Refresh(ctx context.Context) error {
	session.operation.Lock()
	defer session.operation.Unlock()

	session.update(resetWindow)

	return session.loadInitialData(ctx)
}

/*
ClearCache empties the verse cache and rebuilds everything from the remote
dataset. The saved reading position is kept.
*/
func (session *Session) ClearCache(ctx context.Context) error {
	session.operation.Lock()
	defer session.operation.Unlock()

	session.mu.Lock()
	session.loading++
	session.mu.Unlock()

	defer func() {
		session.mu.Lock()
		session.loading = max(session.loading-1, 0)
		session.mu.Unlock()
	}()

	if err := session.store.ClearAll(ctx); err != nil {
		return err
	}

	session.update(func(state *State) {
		resetWindow(state)
		state.TotalCount = 0
		state.IsInitialized = false
	})

	session.logger.Info("session_cache_cleared")

	return session.loadInitialData(ctx)
}

// # Reading Position

// UpdateLastReadPosition records the ayah the reader is at and persists it.
// Persistence failures are logged and otherwise ignored.
func (session *Session) UpdateLastReadPosition(ctx context.Context, id int, ayah *int) LastRead {
	lastRead := LastRead{ID: id}
	if ayah != nil {
		number := *ayah
		lastRead.Ayah = &number
	}

	session.update(func(state *State) { state.LastRead = lastRead })

	if err := session.lastRead.Save(ctx, lastRead); err != nil {
		session.logger.Warn("last_read_save_failed", slog.Any("error", err))
	}

	return lastRead
}
