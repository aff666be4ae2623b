// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"slices"

	"github.com/dendyaziz/quran-reader/pkg/pagination"
	"github.com/dendyaziz/quran-reader/pkg/slice"
)

// PageSource is the part of [Store] the reader depends on.
type PageSource interface {
	Count(context context.Context) (int, error)
	ReadOrderedSlice(context context.Context, skip, take int) ([]Ayah, error)
	Get(context context.Context, id int) (*Ayah, error)
	ListBySurah(context context.Context, surahID int) ([]Ayah, error)
}

// # Paginated Reader

// Reader serves fixed-size pages of the cached dataset with basmallah markers
// in front of every surah opening.
type Reader struct {
	source    PageSource
	basmallah Basmallah
}

// NewReader constructs a reader over source.
func NewReader(source PageSource, basmallah Basmallah) *Reader {
	return &Reader{source: source, basmallah: basmallah}
}

/*
GetPage returns the ayahs of a 1-indexed page, markers included.

Parameters:
  - ctx: context.Context
  - page: int (values below 1 read the first page)
  - pageSize: int (non-positive uses the default page size)

Returns:
  - []Ayah: At most pageSize stored ayahs plus their markers
  - error: *StoreError
*/
func (reader *Reader) GetPage(ctx context.Context, page, pageSize int) ([]Ayah, error) {
	if pageSize <= 0 {
		pageSize = pagination.DefaultLimit
	}

	ayahs, err := reader.source.ReadOrderedSlice(ctx, pagination.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}

	return InjectMarkers(ayahs, reader.basmallah), nil
}

// Total returns the cached row count and the number of pages it spans.
func (reader *Reader) Total(ctx context.Context, pageSize int) (count, totalPages int, err error) {
	if pageSize <= 0 {
		pageSize = pagination.DefaultLimit
	}

	count, err = reader.source.Count(ctx)
	if err != nil {
		return 0, 0, err
	}

	return count, pagination.TotalPages(count, pageSize), nil
}

// Ayah returns a single cached ayah.
func (reader *Reader) Ayah(ctx context.Context, id int) (*Ayah, error) {
	return reader.source.Get(ctx, id)
}

// Surah returns every cached ayah of a surah, with its marker.
func (reader *Reader) Surah(ctx context.Context, surahID int) ([]Ayah, error) {
	ayahs, err := reader.source.ListBySurah(ctx, surahID)
	if err != nil {
		return nil, err
	}

	return InjectMarkers(ayahs, reader.basmallah), nil
}

// Basmallah returns the marker payload in use.
func (reader *Reader) Basmallah() Basmallah {
	return reader.basmallah
}

/*
InjectMarkers places a basmallah marker directly before every ayah that opens
a surah.

Description: Insertion runs from the highest index down so that earlier
indexes stay valid. The input slice is never modified; when it holds no
surah opening it is returned as is.
*/
func InjectMarkers(ayahs []Ayah, basmallah Basmallah) []Ayah {
	openings := slice.Indexes(ayahs, Ayah.StartsSurah)
	if len(openings) == 0 {
		return ayahs
	}

	slices.Reverse(openings)

	result := slices.Clone(ayahs)
	for _, index := range openings {
		result = slices.Insert(result, index, basmallah.MarkerFor(result[index]))
	}

	return result
}
