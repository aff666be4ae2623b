// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Verse Cache: Dataset sizing and metadata keys.
  - Storage Slots: Durable key names for reader state.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "quran-reader"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// A refresh on an empty cache populates it before answering.
	DefaultWriteTimeout = 2 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for a regular request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Verse Cache

const (
	// DefaultBatchSize is the number of rows requested per population round-trip.
	DefaultBatchSize = 1000

	// DefaultExpectedTotal is the number of ayahs in the Quran, used for progress reporting.
	DefaultExpectedTotal = 6236

	// DefaultPageSize is the number of ayahs per reader page.
	DefaultPageSize = 20

	// DefaultRemoteTable is the remote table holding the ayahs.
	DefaultRemoteTable = "quran_ayah"

	// DefaultRemoteOrderKey is the column the remote rows are ordered by.
	DefaultRemoteOrderKey = "id"

	// MetadataKeyPopulated marks a fully mirrored cache.
	MetadataKeyPopulated = "data_populated"
)

// # Storage Slots

const (
	// SlotLastRead holds the JSON encoded last read position.
	SlotLastRead = "lastReadAyah"

	// SlotLastReadLegacy holds a bare ayah id written by older clients.
	SlotLastReadLegacy = "lastReadAyahId"

	// RedisPrefixSlot namespaces reader slots in a shared Redis.
	RedisPrefixSlot = "reader:slot:"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldCode    = "code"
	FieldError   = "error"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
