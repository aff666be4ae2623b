// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"errors"
	"fmt"

	"github.com/dendyaziz/quran-reader/internal/platform/apperr"
)

// StoreError reports a failed operation on the local verse cache.
// Its message carries the underlying driver message.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("verse store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ProviderError reports a failed read from the remote dataset.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("remote dataset: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err originates from the remote dataset.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsStoreError reports whether err originates from the local cache.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// ToAppError maps domain failures to their client-facing form. Remote dataset
// failures become UPSTREAM_UNAVAILABLE; application errors pass through.
func ToAppError(err error) error {
	if err == nil || apperr.IsAppError(err) {
		return err
	}
	if IsProviderError(err) {
		return apperr.UpstreamUnavailable(err)
	}
	return apperr.Internal(err)
}
