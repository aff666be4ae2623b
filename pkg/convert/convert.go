// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant string conversions for legacy storage
slots, where a malformed value should fall back to a default rather than fail.

Do not use this package if distinguishing between malformed data and zero values
is important; use strconv directly instead.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning def if parsing fails or the
// string is empty. Surrounding whitespace is ignored.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}
