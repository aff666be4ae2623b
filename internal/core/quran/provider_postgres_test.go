// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendyaziz/quran-reader/internal/core/quran"
)

var rangeColumns = []string{
	"id", "surah_id", "ayah", "arabic", "transliteration", "page", "juz",
	"position", "row_number_start", "row_number_end", "quarter_hizb", "manzil",
	"no_tashkeel", "has_asbabun", "words_array", "total_count",
}

var rangePattern = regexp.QuoteMeta(`FROM "quran_ayah" ORDER BY "id" ASC LIMIT $1 OFFSET $2`)

/*
TestPostgresFetcher_FetchRange checks the generated query and row scanning.
*/
func TestPostgresFetcher_FetchRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(rangeColumns).
		AddRow(int64(1001), int64(2), int64(1), "الٓمٓ", "alif-lam-mim", int64(2), int64(1),
			int64(1), int64(3), int64(3), "1", int64(1), "الم", nil, `["الٓمٓ"]`, int64(6236)).
		AddRow(int64(1002), int64(2), int64(2), "ذَٰلِكَ", "dhalika", int64(2), int64(1),
			nil, nil, nil, nil, nil, nil, nil, nil, int64(6236))

	mock.ExpectQuery(rangePattern).WithArgs(1000, 1000).WillReturnRows(rows)

	fetcher := quran.NewPostgresFetcher(db)
	result, err := fetcher.FetchRange(context.Background(), quran.RangeQuery{Table: "quran_ayah", OrderKey: "id", From: 1000, To: 1999})
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, 6236, result.Total)
	assert.Equal(t, int64(1001), result.Rows[0].ID)
	assert.Equal(t, "1", *result.Rows[0].QuarterHizb)
	assert.Nil(t, result.Rows[1].Position)

	ayah, err := result.Rows[1].ToAyah()
	require.NoError(t, err)
	assert.Equal(t, []string{}, ayah.WordsArray)
	require.NotNil(t, ayah.NoTashkeel)
	assert.Equal(t, "ذلك", *ayah.NoTashkeel)

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresFetcher_FetchRange_Empty checks the end-of-data answer.
*/
func TestPostgresFetcher_FetchRange_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(rangePattern).WithArgs(1000, 7000).WillReturnRows(sqlmock.NewRows(rangeColumns))

	fetcher := quran.NewPostgresFetcher(db)
	result, err := fetcher.FetchRange(context.Background(), quran.RangeQuery{Table: "quran_ayah", OrderKey: "id", From: 7000, To: 7999})
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Equal(t, quran.UnknownTotal, result.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresFetcher_FetchRange_Error checks that driver failures become provider errors.
*/
func TestPostgresFetcher_FetchRange_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(rangePattern).WillReturnError(errors.New("connection reset by peer"))

	fetcher := quran.NewPostgresFetcher(db)
	_, err = fetcher.FetchRange(context.Background(), testQuery)
	require.Error(t, err)
	assert.True(t, quran.IsProviderError(err))
	assert.Contains(t, err.Error(), "connection reset by peer")
}
