// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dendyaziz/quran-reader/pkg/convert"
)

func TestToIntD(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{" 42\n", 42},
		{"+7", 7},
		{"-3", -3},
		{"", 1},
		{"NaN", 1},
		{"12abc", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convert.ToIntD(tt.in, 1), "input %q", tt.in)
	}
}
