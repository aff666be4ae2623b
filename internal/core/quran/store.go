// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import "context"

// # Verse Cache Data Access

// Store is the local mirror of the remote verse dataset.
//
// Implementations open lazily: every operation opens the underlying file on
// first use, so callers never observe a half-open store.
type Store interface {

	/*
		Open prepares the store for use. It is idempotent and safe for
		concurrent callers.

		Returns:
		  - error: *StoreError on open or migration failure
	*/
	Open(context context.Context) error

	/*
		IsPopulated reports whether a complete mirror has been recorded.

		Returns:
		  - bool: True once MarkPopulated has succeeded
		  - error: *StoreError
	*/
	IsPopulated(context context.Context) (bool, error)

	/*
		MarkPopulated records that the mirror is complete. Repeating it is harmless.

		Returns:
		  - error: *StoreError
	*/
	MarkPopulated(context context.Context) error

	/*
		Count returns the number of cached ayahs.

		Returns:
		  - int: Row count
		  - error: *StoreError
	*/
	Count(context context.Context) (int, error)

	/*
		UpsertBatch writes ayahs in a single transaction. Existing ids are
		replaced. Either every row is written or none is.

		Parameters:
		  - context: context.Context
		  - ayahs: []Ayah (markers are rejected)

		Returns:
		  - error: *StoreError
	*/
	UpsertBatch(context context.Context, ayahs []Ayah) error

	/*
		ReadOrderedSlice returns up to take ayahs in ascending id order after
		skipping the first skip rows.

		Parameters:
		  - context: context.Context
		  - skip: int (negative is treated as 0)
		  - take: int (zero or negative yields an empty slice)

		Returns:
		  - []Ayah: Fewer than take only at the end of the data
		  - error: *StoreError
	*/
	ReadOrderedSlice(context context.Context, skip, take int) ([]Ayah, error)

	/*
		ClearAll empties the verse table and the metadata table in one transaction.

		Returns:
		  - error: *StoreError
	*/
	ClearAll(context context.Context) error

	/*
		Get returns the ayah stored under id.

		Returns:
		  - *Ayah: The cached row
		  - error: apperr NotFound if missing, *StoreError otherwise
	*/
	Get(context context.Context, id int) (*Ayah, error)

	/*
		ListBySurah returns every cached ayah of a surah in reading order.

		Returns:
		  - []Ayah: Possibly empty
		  - error: *StoreError
	*/
	ListBySurah(context context.Context, surahID int) ([]Ayah, error)

	// Ping verifies the store is reachable.
	Ping(context context.Context) error

	// Close releases the underlying handle. A later operation reopens it.
	Close() error
}
