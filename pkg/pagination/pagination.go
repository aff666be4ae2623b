// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for page-based reads.
//
// # Overview
//
// Pages are 1-indexed and fixed-size. The same arithmetic is used by the verse
// reader (skip/take against the local cache), by the reading session (window
// bounds) and by the HTTP list endpoints (query parameters and response meta).
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of ayahs per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for ayahs per page.
	MaxLimit = 300
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip for [Page] and [Limit].
func (p Params) Offset() int {
	return Offset(p.Page, p.Limit)
}

// Offset returns the skip count for a 1-indexed page. Pages below 1 are
// treated as the first page.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	return (page - 1) * limit
}

// TotalPages returns ceil(total / limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// PageOf returns the 1-indexed page holding the n-th row (1-indexed), i.e.
// ceil(n / limit). Values below 1 map to the first page.
func PageOf(n, limit int) int {
	if n < 1 || limit <= 0 {
		return DefaultPage
	}
	return (n + limit - 1) / limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates the TotalPages based on the total count and limit.
func NewMeta(page, limit, total int) Meta {
	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
	}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], [DefaultLimit], or [MaxLimit].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	limit := parseIntParam(r, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
