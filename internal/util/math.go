package util

import "cmp"

// MinOf returns the smallest of the given values. The first argument is
// required, so callers handle emptiness themselves.
func MinOf[T cmp.Ordered](v T, rest ...T) T {
	min := v
	for _, x := range rest {
		if x < min {
			min = x
		}
	}
	return min
}
