// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Quran reader HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the local verse cache (SQLite, migrations run on open).
//  4. Connect to the remote dataset provider.
//  5. Open the reader slot store (Redis or SQLite).
//  6. Wire the reader and the session.
//  7. Start HTTP server with graceful shutdown.
//
// The session initializes in the background; reader endpoints answer 503
// until it is ready.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dendyaziz/quran-reader/internal/api"
	"github.com/dendyaziz/quran-reader/internal/bootstrap"
	"github.com/dendyaziz/quran-reader/internal/core/quran"
	"github.com/dendyaziz/quran-reader/internal/core/reading"
	"github.com/dendyaziz/quran-reader/internal/platform/config"
	"github.com/dendyaziz/quran-reader/internal/platform/constants"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("provider", cfg.Provider),
	)

	if cfg.IsProduction() && cfg.OriginSuffix() == "" {
		log.Warn("cors_origin_suffix_missing")
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. Local verse cache ──────────────────────────────────────────────
	verses := quran.NewSQLiteStore(cfg.CachePath, log)
	must(log, verses.Open(startupCtx), "open verse cache")
	defer func() {
		log.Info("closing_verse_cache")
		if err := verses.Close(); err != nil {
			log.Error("verse_cache_close_failed", slog.Any("error", err))
		}
	}()

	// ── 4. Remote provider ────────────────────────────────────────────────
	fetcher, closeFetcher, err := bootstrap.Fetcher(startupCtx, cfg, log)
	must(log, err, "connect to remote dataset")
	defer closeFetcher()

	// ── 5. Slot store ─────────────────────────────────────────────────────
	slots, closeSlots, err := bootstrap.SlotStore(startupCtx, cfg, log)
	must(log, err, "open slot store")
	defer closeSlots()

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	basmallah, err := quran.LoadBasmallah(cfg.BasmallahPath)
	must(log, err, "load basmallah")

	populator := quran.NewPopulator(verses, fetcher, bootstrap.PopulatorConfig(cfg), log)
	reader := quran.NewReader(verses, basmallah)
	lastRead := reading.NewLastReadRepository(slots.Store, log)

	session := reading.NewSession(verses, reader, populator, lastRead, reading.Options{
		PageSize:      cfg.PageSize,
		ExpectedTotal: cfg.ExpectedTotal,
	}, log)

	go func() {
		if err := session.LoadInitialData(rootCtx); err != nil {
			log.Error("session_startup_failed", slog.Any("error", err))
		}
	}()

	liveness, readiness := api.NewHealthHandlers([]api.HealthCheck{
		{Name: "verse_cache", Check: verses.Ping},
		{Name: slots.Name, Check: slots.Ping},
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Verses:    quran.NewHandler(reader),
		Reader:    reading.NewHandler(session),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	rootCancel()

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
