// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/dendyaziz/quran-reader/pkg/arabic"
	"github.com/dendyaziz/quran-reader/pkg/pointer"
)

//go:embed basmallah.json
var defaultBasmallahJSON []byte

// Basmallah is the static text shown before the first ayah of each surah.
type Basmallah struct {
	Arabic          string   `json:"arabic"`
	Transliteration string   `json:"transliteration"`
	NoTashkeel      *string  `json:"no_tashkeel,omitempty"`
	WordsArray      []string `json:"words_array"`
}

// DefaultBasmallah returns the embedded payload.
func DefaultBasmallah() Basmallah {
	basmallah, err := parseBasmallah(defaultBasmallahJSON)
	if err != nil {
		panic("quran: embedded basmallah.json is invalid: " + err.Error())
	}
	return basmallah
}

// LoadBasmallah reads a payload from path. An empty path yields [DefaultBasmallah].
func LoadBasmallah(path string) (Basmallah, error) {
	if path == "" {
		return DefaultBasmallah(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Basmallah{}, fmt.Errorf("quran: read basmallah payload: %w", err)
	}

	return parseBasmallah(data)
}

func parseBasmallah(data []byte) (Basmallah, error) {
	var basmallah Basmallah
	if err := json.Unmarshal(data, &basmallah); err != nil {
		return Basmallah{}, fmt.Errorf("quran: parse basmallah payload: %w", err)
	}
	if basmallah.Arabic == "" {
		return Basmallah{}, errors.New("quran: basmallah payload has no arabic text")
	}
	if basmallah.WordsArray == nil {
		basmallah.WordsArray = []string{}
	}
	if basmallah.NoTashkeel == nil && arabic.HasTashkeel(basmallah.Arabic) {
		basmallah.NoTashkeel = pointer.To(arabic.StripTashkeel(basmallah.Arabic))
	}
	return basmallah, nil
}

// MarkerFor builds the synthetic row placed before first, the opening ayah of
// a surah. The marker inherits the surah, page and juz of that ayah.
func (b Basmallah) MarkerFor(first Ayah) Ayah {
	marker := Ayah{
		ID:              float64(first.SurahID) - 0.5,
		SurahID:         first.SurahID,
		Page:            first.Page,
		Juz:             first.Juz,
		Arabic:          b.Arabic,
		Transliteration: b.Transliteration,
		WordsArray:      slices.Clone(b.WordsArray),
		Marker:          true,
	}

	if b.NoTashkeel != nil {
		text := *b.NoTashkeel
		marker.NoTashkeel = &text
	}

	return marker
}
