// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"database/sql"
	"errors"

	"github.com/dendyaziz/quran-reader/internal/platform/apperr"
)

// Wrap inspects a database error and classifies it.
//
// A missing row becomes [apperr.NotFound] for the named resource; every other
// error is returned untouched so that callers keep their own wrapping.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	return err
}
