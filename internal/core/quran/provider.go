// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"fmt"
)

// # Remote Dataset

// RangeFetcher reads the remote verse table in inclusive row ranges.
type RangeFetcher interface {

	/*
		FetchRange returns the rows at positions From..To (inclusive, zero
		based) of Table ordered ascending by OrderKey.

		Parameters:
		  - context: context.Context
		  - query: RangeQuery

		Returns:
		  - *RangeResult: Rows may be empty at the end of the data
		  - error: *ProviderError
	*/
	FetchRange(context context.Context, query RangeQuery) (*RangeResult, error)
}

// RangeQuery selects a contiguous block of the remote table.
type RangeQuery struct {
	Table    string
	OrderKey string
	From     int
	To       int
}

// Limit returns the number of rows the range covers.
func (q RangeQuery) Limit() int {
	return q.To - q.From + 1
}

// Validate rejects ranges that cannot be expressed remotely.
func (q RangeQuery) Validate() error {
	switch {
	case q.Table == "":
		return &ProviderError{Op: "validate range", Err: fmt.Errorf("table is required")}
	case q.OrderKey == "":
		return &ProviderError{Op: "validate range", Err: fmt.Errorf("order key is required")}
	case q.From < 0 || q.To < q.From:
		return &ProviderError{Op: "validate range", Err: fmt.Errorf("invalid range %d-%d", q.From, q.To)}
	}
	return nil
}

// UnknownTotal marks a [RangeResult] whose provider did not report a row count.
const UnknownTotal = -1

// RangeResult is one block of remote rows.
type RangeResult struct {
	Rows  []RemoteAyah
	Total int // Exact remote row count, or UnknownTotal.
}
