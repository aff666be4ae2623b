// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dendyaziz/quran-reader/pkg/arabic"
	"github.com/dendyaziz/quran-reader/pkg/pointer"
)

// ── Aggregate ────────────────────────────────────────────────────────────────

// Ayah is a single verse of the Quran as held by the local cache.
//
// # Identity
//
// ID is the global reading-order position (1..6236). It is a float64 because
// synthetic basmallah rows are numbered SurahID-0.5 so that they sort directly
// before the first ayah of their surah without colliding with a real ID.
type Ayah struct {
	ID              float64  `json:"id"`
	SurahID         int      `json:"surah_id"`
	Ayah            *int     `json:"ayah,omitempty"` // 1-based number within the surah.
	Arabic          string   `json:"arabic"`
	Transliteration string   `json:"transliteration"`
	Page            int      `json:"page"` // Mushaf page.
	Juz             int      `json:"juz"`
	Position        *int     `json:"position,omitempty"`
	RowNumberStart  *int     `json:"row_number_start,omitempty"`
	RowNumberEnd    *int     `json:"row_number_end,omitempty"`
	QuarterHizb     *string  `json:"quarter_hizb,omitempty"`
	Manzil          *int     `json:"manzil,omitempty"`
	NoTashkeel      *string  `json:"no_tashkeel,omitempty"`
	HasAsbabun      *string  `json:"has_asbabun,omitempty"`
	WordsArray      []string `json:"words_array"`
	Marker          bool     `json:"marker,omitempty"` // Synthetic basmallah row, never stored.
}

// StartsSurah reports whether a is the first ayah of its surah.
func (a Ayah) StartsSurah() bool {
	return !a.Marker && pointer.Val(a.Ayah) == 1
}

// StorageID returns the integer primary key of a stored ayah.
// It fails for markers and fractional IDs.
func (a Ayah) StorageID() (int64, error) {
	if a.Marker || a.ID != math.Trunc(a.ID) || a.ID < 1 {
		return 0, fmt.Errorf("ayah id %v is not a storable id", a.ID)
	}
	return int64(a.ID), nil
}

// ── Remote form ──────────────────────────────────────────────────────────────

// SerializedWords is the remote form of the word list: a JSON array encoded
// as a string. Providers that already return an array are accepted too.
type SerializedWords string

// UnmarshalJSON accepts a JSON string, a JSON array or null.
func (w *SerializedWords) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*w = ""
	case trimmed[0] == '"':
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*w = SerializedWords(raw)
	default:
		*w = SerializedWords(trimmed)
	}

	return nil
}

// Decode parses the serialized list. An empty value decodes to an empty list.
func (w SerializedWords) Decode() ([]string, error) {
	if strings.TrimSpace(string(w)) == "" {
		return []string{}, nil
	}

	var words []string
	if err := json.Unmarshal([]byte(w), &words); err != nil {
		return nil, fmt.Errorf("decode words_array: %w", err)
	}
	if words == nil {
		words = []string{}
	}

	return words, nil
}

// RemoteAyah is one row of the remote quran_ayah table.
type RemoteAyah struct {
	ID              int64           `json:"id"`
	SurahID         int             `json:"surah_id"`
	Ayah            *int            `json:"ayah"`
	Arabic          string          `json:"arabic"`
	Transliteration string          `json:"transliteration"`
	Page            int             `json:"page"`
	Juz             int             `json:"juz"`
	Position        *int            `json:"position"`
	RowNumberStart  *int            `json:"row_number_start"`
	RowNumberEnd    *int            `json:"row_number_end"`
	QuarterHizb     *string         `json:"quarter_hizb"`
	Manzil          *int            `json:"manzil"`
	NoTashkeel      *string         `json:"no_tashkeel"`
	HasAsbabun      *string         `json:"has_asbabun"`
	WordsArray      SerializedWords `json:"words_array"`
}

// ToAyah converts the remote row into its cached form.
//
// The word list is deserialized and a missing no_tashkeel text is derived
// from the Arabic text.
func (r RemoteAyah) ToAyah() (Ayah, error) {
	words, err := r.WordsArray.Decode()
	if err != nil {
		return Ayah{}, fmt.Errorf("ayah %d: %w", r.ID, err)
	}

	noTashkeel := r.NoTashkeel
	if noTashkeel == nil && r.Arabic != "" {
		noTashkeel = pointer.To(arabic.StripTashkeel(r.Arabic))
	}

	return Ayah{
		ID:              float64(r.ID),
		SurahID:         r.SurahID,
		Ayah:            r.Ayah,
		Arabic:          r.Arabic,
		Transliteration: r.Transliteration,
		Page:            r.Page,
		Juz:             r.Juz,
		Position:        r.Position,
		RowNumberStart:  r.RowNumberStart,
		RowNumberEnd:    r.RowNumberEnd,
		QuarterHizb:     r.QuarterHizb,
		Manzil:          r.Manzil,
		NoTashkeel:      noTashkeel,
		HasAsbabun:      r.HasAsbabun,
		WordsArray:      words,
	}, nil
}
