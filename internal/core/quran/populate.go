// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dendyaziz/quran-reader/internal/platform/constants"
	"github.com/dendyaziz/quran-reader/pkg/slice"
	"github.com/dendyaziz/quran-reader/pkg/uuid"
)

// ProgressFunc receives population progress after every stored batch.
// current never exceeds total.
type ProgressFunc func(current, total int)

// PopulationStore is the part of [Store] the pipeline writes to.
type PopulationStore interface {
	IsPopulated(context context.Context) (bool, error)
	UpsertBatch(context context.Context, ayahs []Ayah) error
	MarkPopulated(context context.Context) error
}

// PopulatorConfig controls how the remote table is read.
type PopulatorConfig struct {
	Table         string
	OrderKey      string
	BatchSize     int
	ExpectedTotal int
}

// DefaultPopulatorConfig returns the settings for the full 6236-ayah dataset.
func DefaultPopulatorConfig() PopulatorConfig {
	return PopulatorConfig{
		Table:         constants.DefaultRemoteTable,
		OrderKey:      constants.DefaultRemoteOrderKey,
		BatchSize:     constants.DefaultBatchSize,
		ExpectedTotal: constants.DefaultExpectedTotal,
	}
}

// # Population Pipeline

// Populator copies the remote dataset into the local store.
type Populator struct {
	store   PopulationStore
	fetcher RangeFetcher
	config  PopulatorConfig
	logger  *slog.Logger
}

// NewPopulator constructs a pipeline. Zero config values fall back to
// [DefaultPopulatorConfig].
func NewPopulator(store PopulationStore, fetcher RangeFetcher, config PopulatorConfig, logger *slog.Logger) *Populator {
	defaults := DefaultPopulatorConfig()

	if config.Table == "" {
		config.Table = defaults.Table
	}
	if config.OrderKey == "" {
		config.OrderKey = defaults.OrderKey
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.ExpectedTotal <= 0 {
		config.ExpectedTotal = defaults.ExpectedTotal
	}

	return &Populator{store: store, fetcher: fetcher, config: config, logger: logger}
}

/*
Populate mirrors the remote table batch by batch.

Description: Batches are fetched strictly in order. A provider or store
failure aborts the run and leaves the store unmarked, so the next run starts
over; already written rows are overwritten by the upsert. The store is marked
populated only after the final batch.

Parameters:
  - ctx: context.Context
  - onProgress: ProgressFunc (optional)

Returns:
  - error: *ProviderError or *StoreError
*/
func (populator *Populator) Populate(ctx context.Context, onProgress ProgressFunc) error {
	runID := uuid.New()
	size := populator.config.BatchSize
	total := populator.config.ExpectedTotal
	started := time.Now()

	log := populator.logger.With(slog.String("run_id", runID))
	log.Info("population_started",
		slog.String("table", populator.config.Table),
		slog.Int("batch_size", size),
	)

	stored := 0
	for batch := 0; ; batch++ {
		query := RangeQuery{
			Table:    populator.config.Table,
			OrderKey: populator.config.OrderKey,
			From:     batch * size,
			To:       batch*size + size - 1,
		}

		result, err := populator.fetcher.FetchRange(ctx, query)
		if err != nil {
			return populator.fail(log, batch, asProviderError(err))
		}
		if result == nil || len(result.Rows) == 0 {
			break
		}

		if result.Total > 0 {
			total = result.Total
		}

		ayahs, err := slice.MapErr(result.Rows, RemoteAyah.ToAyah)
		if err != nil {
			return populator.fail(log, batch, &ProviderError{Op: "transform batch", Err: err})
		}

		if err := populator.store.UpsertBatch(ctx, ayahs); err != nil {
			return populator.fail(log, batch, err)
		}

		stored += len(ayahs)
		current := min((batch+1)*size, total)

		log.Debug("population_batch_stored",
			slog.Int("batch", batch),
			slog.Int("rows", len(ayahs)),
			slog.Int("progress", current),
			slog.Int("total", total),
		)

		if onProgress != nil {
			onProgress(current, total)
		}

		if len(result.Rows) < size {
			break
		}
	}

	if err := populator.store.MarkPopulated(ctx); err != nil {
		return populator.fail(log, -1, err)
	}

	log.Info("population_completed",
		slog.Int("rows", stored),
		slog.Duration("duration", time.Since(started)),
	)

	return nil
}

/*
EnsurePopulated runs [Populator.Populate] only when the store is not yet
populated.

Returns:
  - bool: True when a population run happened
  - error: Failure of the check or of the run
*/
func (populator *Populator) EnsurePopulated(ctx context.Context, onProgress ProgressFunc) (bool, error) {
	populated, err := populator.store.IsPopulated(ctx)
	if err != nil {
		return false, err
	}
	if populated {
		return false, nil
	}

	return true, populator.Populate(ctx, onProgress)
}

func (populator *Populator) fail(log *slog.Logger, batch int, err error) error {
	log.Error("population_failed", slog.Int("batch", batch), slog.Any("error", err))
	return err
}

func asProviderError(err error) error {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return err
	}
	return &ProviderError{Op: "fetch range", Err: err}
}
