// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package arabic provides normalization helpers for Arabic script.
//
// # Usage
//
// The remote dataset ships a diacritic-free copy of each ayah ("no_tashkeel")
// for most rows. When a row arrives without one, it is derived locally so that
// every cached ayah carries both forms.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tatweel is the Arabic elongation character (U+0640). It carries no meaning
// and is dropped together with the vowel marks.
const tatweel = 'ـ'

// StripTashkeel removes harakat, tanween, shadda, sukun, Quranic annotation
// marks and tatweel from s.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (splits precomposed letters: آ → ا + madda).
// 2. Removes combining marks (every tashkeel mark is a Unicode Mn).
// 3. Drops tatweel.
// 4. Recomposes to NFC and collapses runs of whitespace.
func StripTashkeel(s string) string {
	if s == "" {
		return ""
	}

	// 1. Decompose and drop non-spacing marks
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMark), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	// 2. Drop elongation
	result = strings.Map(func(r rune) rune {
		if r == tatweel {
			return -1
		}
		return r
	}, result)

	// 3. Normalize spacing left behind by standalone marks
	return strings.Join(strings.Fields(result), " ")
}

// HasTashkeel reports whether s contains at least one vowel or annotation mark.
func HasTashkeel(s string) bool {
	for _, r := range s {
		if isMark(r) {
			return true
		}
	}
	return false
}

// isMark reports whether r is a Unicode non-spacing mark.
func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
