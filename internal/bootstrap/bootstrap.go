// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bootstrap builds the infrastructure shared by the server and the
maintenance CLI from a [config.Config].

Every constructor returns a cleanup function that must be called on shutdown,
even when it is a no-op.
*/
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/dendyaziz/quran-reader/internal/core/quran"
	"github.com/dendyaziz/quran-reader/internal/core/reading"
	"github.com/dendyaziz/quran-reader/internal/platform/config"
	"github.com/dendyaziz/quran-reader/internal/platform/constants"
	pgstore "github.com/dendyaziz/quran-reader/internal/platform/postgres"
	redisstore "github.com/dendyaziz/quran-reader/internal/platform/redis"
)

// Cleanup releases a resource opened by this package.
type Cleanup func()

// Fetcher opens the remote dataset provider selected by cfg.Provider.
func Fetcher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (quran.RangeFetcher, Cleanup, error) {
	switch cfg.Provider {
	case config.ProviderPostgREST:
		client := &http.Client{Timeout: constants.GlobalRequestTimeout}
		return quran.NewPostgRESTFetcher(cfg.SupabaseURL, cfg.SupabaseAnonKey, client), func() {}, nil

	case config.ProviderPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		db := pgstore.OpenDB(pool)

		cleanup := func() {
			_ = db.Close()
			pool.Close()
		}
		return quran.NewPostgresFetcher(db), cleanup, nil
	}

	return nil, nil, fmt.Errorf("bootstrap: unknown provider %q", cfg.Provider)
}

// Slots is the reader slot store plus its readiness probe.
type Slots struct {
	Store reading.SlotStore
	Name  string
	Ping  func(ctx context.Context) error
}

// SlotStore opens Redis when cfg.RedisURL is set and the SQLite slot file
// otherwise.
func SlotStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Slots, Cleanup, error) {
	if cfg.UsesRedis() {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return Slots{}, nil, err
		}

		slots := Slots{
			Store: reading.NewRedisSlotStore(client),
			Name:  "redis",
			Ping: func(ctx context.Context) error {
				return redisstore.Ping(ctx, client)
			},
		}
		return slots, closeRedis(client, logger), nil
	}

	store := reading.NewSQLiteSlotStore(cfg.SlotPath, logger)
	slots := Slots{Store: store, Name: "slot_store", Ping: store.Ping}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("slot_store_close_failed", slog.Any("error", err))
		}
	}
	return slots, cleanup, nil
}

func closeRedis(client *redis.Client, logger *slog.Logger) Cleanup {
	return func() {
		if err := client.Close(); err != nil {
			logger.Error("redis_close_failed", slog.Any("error", err))
		}
	}
}

// PopulatorConfig maps cfg onto the population pipeline settings.
func PopulatorConfig(cfg *config.Config) quran.PopulatorConfig {
	return quran.PopulatorConfig{
		Table:         cfg.RemoteTable,
		OrderKey:      cfg.RemoteOrderKey,
		BatchSize:     cfg.BatchSize,
		ExpectedTotal: cfg.ExpectedTotal,
	}
}
