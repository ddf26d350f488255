// Package utils holds small query-parsing and paging helpers shared by the
// HTTP handlers. Nothing here knows about workouts, videos or chat.
package utils

import "strconv"

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty or
// not an integer. Whitespace is not trimmed.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampedInt parses s like AtoiDefault and bounds the result to [lo, hi].
//
//	utils.ClampedInt("", 10, 1, 50)   // 10
//	utils.ClampedInt("0", 10, 1, 50)  // 1
//	utils.ClampedInt("99", 10, 1, 50) // 50
func ClampedInt(s string, def, lo, hi int) int {
	n := AtoiDefault(s, def)
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Offset is the number of rows skipped before the 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// TotalPages is ceil(total / pageSize); zero rows means zero pages.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
