// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dendyaziz/quran-reader/internal/platform/database/schema"
)

// PostgresFetcher reads the remote table directly from PostgreSQL.
//
// It works on a *sql.DB so that the pgx pool can be shared through
// stdlib.OpenDBFromPool.
type PostgresFetcher struct {
	db *sql.DB
}

// NewPostgresFetcher constructs a fetcher over db.
func NewPostgresFetcher(db *sql.DB) *PostgresFetcher {
	return &PostgresFetcher{db: db}
}

/*
FetchRange implements [RangeFetcher] with LIMIT/OFFSET.

Description: The total row count is computed in the same round-trip with a
window function, as the catalogue queries do.
*/
func (fetcher *PostgresFetcher) FetchRange(ctx context.Context, query RangeQuery) (*RangeResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := fetcher.db.QueryContext(ctx, rangeSQL(query.Table, query.OrderKey), query.Limit(), query.From)
	if err != nil {
		return nil, &ProviderError{Op: "query range", Err: err}
	}
	defer rows.Close()

	result := &RangeResult{Rows: []RemoteAyah{}, Total: UnknownTotal}

	for rows.Next() {
		var (
			remote RemoteAyah
			words  sql.NullString
			total  int
		)

		err := rows.Scan(
			&remote.ID,
			&remote.SurahID,
			&remote.Ayah,
			&remote.Arabic,
			&remote.Transliteration,
			&remote.Page,
			&remote.Juz,
			&remote.Position,
			&remote.RowNumberStart,
			&remote.RowNumberEnd,
			&remote.QuarterHizb,
			&remote.Manzil,
			&remote.NoTashkeel,
			&remote.HasAsbabun,
			&words,
			&total,
		)
		if err != nil {
			return nil, &ProviderError{Op: "scan range", Err: err}
		}

		remote.WordsArray = SerializedWords(words.String)
		result.Rows = append(result.Rows, remote)
		result.Total = total
	}

	if err := rows.Err(); err != nil {
		return nil, &ProviderError{Op: "iterate range", Err: err}
	}

	return result, nil
}

// rangeSQL builds the ordered range query. Text columns that may be NULL
// remotely are coalesced to their local defaults.
func rangeSQL(table, orderKey string) string {
	quote := func(name string) string { return pgx.Identifier{name}.Sanitize() }

	columns := []string{
		quote(schema.QuranAyah.ID),
		quote(schema.QuranAyah.SurahID),
		quote(schema.QuranAyah.Ayah),
		fmt.Sprintf("COALESCE(%s, '')", quote(schema.QuranAyah.Arabic)),
		fmt.Sprintf("COALESCE(%s, '')", quote(schema.QuranAyah.Transliteration)),
		fmt.Sprintf("COALESCE(%s, 0)", quote(schema.QuranAyah.Page)),
		fmt.Sprintf("COALESCE(%s, 0)", quote(schema.QuranAyah.Juz)),
		quote(schema.QuranAyah.Position),
		quote(schema.QuranAyah.RowNumberStart),
		quote(schema.QuranAyah.RowNumberEnd),
		fmt.Sprintf("%s::text", quote(schema.QuranAyah.QuarterHizb)),
		quote(schema.QuranAyah.Manzil),
		quote(schema.QuranAyah.NoTashkeel),
		fmt.Sprintf("%s::text", quote(schema.QuranAyah.HasAsbabun)),
		fmt.Sprintf("%s::text", quote(schema.QuranAyah.WordsArray)),
	}

	return fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s ORDER BY %s ASC LIMIT $1 OFFSET $2`,
		strings.Join(columns, ", "), quote(table), quote(orderKey))
}
