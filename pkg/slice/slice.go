// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] package with generic helpers
used when reshaping batches of ayahs.
*/
package slice

// MapErr maps input through transform, stopping at the first error.
func MapErr[T any, U any](input []T, transform func(T) (U, error)) ([]U, error) {
	if input == nil {
		return nil, nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		out, err := transform(v)
		if err != nil {
			return nil, err
		}
		result[i] = out
	}

	return result, nil
}

// Indexes returns, in ascending order, the positions of every element for
// which predicate evaluates to true.
func Indexes[T any](input []T, predicate func(T) bool) []int {
	var result []int
	for i, v := range input {
		if predicate(v) {
			result = append(result, i)
		}
	}

	return result
}
