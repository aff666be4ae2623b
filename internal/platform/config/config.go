// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (stores, providers) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Remote dataset provider kinds.
const (
	ProviderPostgREST = "postgrest"
	ProviderPostgres  = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the reader.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Local verse cache (SQLite file)
	CachePath string `env:"CACHE_PATH" envDefault:"./data/quran_cache.db"`

	// Reader slots (last read position). Redis wins when configured.
	SlotPath string `env:"SLOT_PATH" envDefault:"./data/reader_slots.db"`
	RedisURL string `env:"REDIS_URL"`

	// Remote dataset provider
	Provider        string `env:"PROVIDER"          envDefault:"postgrest"`
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`
	DatabaseURL     string `env:"DATABASE_URL"`
	RemoteTable     string `env:"REMOTE_TABLE"      envDefault:"quran_ayah"`
	RemoteOrderKey  string `env:"REMOTE_ORDER_KEY"  envDefault:"id"`

	// Population pipeline
	BatchSize     int `env:"POPULATE_BATCH_SIZE"     envDefault:"1000"`
	ExpectedTotal int `env:"POPULATE_EXPECTED_TOTAL" envDefault:"6236"`

	// Reader window
	PageSize int `env:"PAGE_SIZE" envDefault:"20"`

	// BasmallahPath overrides the embedded basmallah marker payload.
	BasmallahPath string `env:"BASMALLAH_PATH"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderPostgREST:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the postgrest provider"))
		}
	case ProviderPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PROVIDER %q (want %q or %q)", c.Provider, ProviderPostgREST, ProviderPostgres))
	}

	if c.BatchSize < 1 {
		errs = append(errs, errors.New("POPULATE_BATCH_SIZE must be positive"))
	}
	if c.ExpectedTotal < 1 {
		errs = append(errs, errors.New("POPULATE_EXPECTED_TOTAL must be positive"))
	}
	if c.PageSize < 1 {
		errs = append(errs, errors.New("PAGE_SIZE must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesRedis reports whether reader slots live in Redis instead of SQLite.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}

// OriginSuffix returns the allowed CORS origin suffix in non-development mode.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
