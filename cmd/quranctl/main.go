// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command quranctl maintains the local verse cache without starting the API.
//
// Usage:
//
//	quranctl status
//	quranctl populate [--force]
//	quranctl page <n> [--size 20]
//	quranctl verse <id>
//	quranctl last-read
//	quranctl clear
//
// Configuration is read from the same environment variables as the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dendyaziz/quran-reader/internal/bootstrap"
	"github.com/dendyaziz/quran-reader/internal/core/quran"
	"github.com/dendyaziz/quran-reader/internal/core/reading"
	"github.com/dendyaziz/quran-reader/internal/platform/config"
	"github.com/dendyaziz/quran-reader/internal/platform/constants"
)

// CLI defines the command-line interface for quranctl.
var CLI struct {
	Verbose bool `short:"v" help:"Log debug events to stderr"`

	Status   StatusCmd   `cmd:"" help:"Show cache population state"`
	Populate PopulateCmd `cmd:"" help:"Mirror the remote dataset into the cache"`
	Page     PageCmd     `cmd:"" help:"Print one reader page as JSON"`
	Verse    VerseCmd    `cmd:"" help:"Print one cached ayah as JSON"`
	LastRead LastReadCmd `cmd:"" name:"last-read" help:"Show the saved reading position"`
	Clear    ClearCmd    `cmd:"" help:"Delete every cached ayah and the populated flag"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// runtime carries what every command needs. It is bound into kong.
type runtime struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	store  *quran.SQLiteStore
}

// StatusCmd reports whether the cache is populated and how many rows it holds.
type StatusCmd struct{}

func (c *StatusCmd) Run(rt *runtime) error {
	populated, err := rt.store.IsPopulated(rt.ctx)
	if err != nil {
		return err
	}
	count, err := rt.store.Count(rt.ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(rt.out, "cache:      %s\n", rt.cfg.CachePath)
	fmt.Fprintf(rt.out, "schema:     v%d\n", rt.store.SchemaVersion())
	fmt.Fprintf(rt.out, "populated:  %t\n", populated)
	fmt.Fprintf(rt.out, "ayahs:      %d / %d\n", count, rt.cfg.ExpectedTotal)
	return nil
}

// PopulateCmd runs the population pipeline.
type PopulateCmd struct {
	Force bool `help:"Clear the cache first and mirror again"`
}

func (c *PopulateCmd) Run(rt *runtime) error {
	fetcher, closeFetcher, err := bootstrap.Fetcher(rt.ctx, rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	if c.Force {
		if err := rt.store.ClearAll(rt.ctx); err != nil {
			return err
		}
	}

	populator := quran.NewPopulator(rt.store, fetcher, bootstrap.PopulatorConfig(rt.cfg), rt.logger)

	ran, err := populator.EnsurePopulated(rt.ctx, func(current, total int) {
		progress := reading.Progress{Current: current, Total: total}
		fmt.Fprintf(rt.out, "\rpopulating %d/%d (%d%%)", current, total, progress.Percentage())
	})
	if ran {
		fmt.Fprintln(rt.out)
	}
	if err != nil {
		return err
	}

	if !ran {
		fmt.Fprintln(rt.out, "cache already populated, use --force to mirror again")
	}
	return nil
}

// PageCmd prints a page of marker-injected ayahs.
type PageCmd struct {
	Number int `arg:"" help:"1-indexed page number"`
	Size   int `default:"20" help:"Ayahs per page"`
}

func (c *PageCmd) Run(rt *runtime) error {
	basmallah, err := quran.LoadBasmallah(rt.cfg.BasmallahPath)
	if err != nil {
		return err
	}

	ayahs, err := quran.NewReader(rt.store, basmallah).GetPage(rt.ctx, c.Number, c.Size)
	if err != nil {
		return err
	}
	return printJSON(rt.out, ayahs)
}

// VerseCmd prints a single cached ayah.
type VerseCmd struct {
	ID int `arg:"" help:"Global ayah id"`
}

func (c *VerseCmd) Run(rt *runtime) error {
	ayah, err := rt.store.Get(rt.ctx, c.ID)
	if err != nil {
		return err
	}
	return printJSON(rt.out, ayah)
}

// LastReadCmd prints the saved position, migrating a legacy slot if present.
type LastReadCmd struct{}

func (c *LastReadCmd) Run(rt *runtime) error {
	slots, closeSlots, err := bootstrap.SlotStore(rt.ctx, rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer closeSlots()

	lastRead, err := reading.NewLastReadRepository(slots.Store, rt.logger).Load(rt.ctx)
	if err != nil {
		return err
	}
	return printJSON(rt.out, lastRead)
}

// ClearCmd empties the cache.
type ClearCmd struct{}

func (c *ClearCmd) Run(rt *runtime) error {
	if err := rt.store.ClearAll(rt.ctx); err != nil {
		return err
	}
	fmt.Fprintln(rt.out, "cache cleared")
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(rt *runtime) error {
	fmt.Fprintf(rt.out, "%s %s\n", constants.AppName, constants.AppVersion)
	return nil
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("quranctl"),
		kong.Description("Maintain the local Quran verse cache"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := slog.LevelWarn
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := quran.NewSQLiteStore(cfg.CachePath, logger)
	defer func() { _ = store.Close() }()

	kctx.FatalIfErrorf(store.Open(ctx))

	err = kctx.Run(&runtime{
		ctx:    ctx,
		cfg:    cfg,
		logger: logger,
		out:    os.Stdout,
		store:  store,
	})
	kctx.FatalIfErrorf(err)
}
