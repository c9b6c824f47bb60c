// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// TotalPages returns how many pages of size pageSize hold total items.
// A non-positive pageSize is treated as 1.
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage bounds a 1-based page number to [1, totalPages]. When there are
// no pages the result is 1.
//
//	utils.ClampPage(9999, 3) // 3
//	utils.ClampPage(0, 3)    // 1
func ClampPage(page, totalPages int) int {
	if page < 1 {
		page = 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageBounds returns the half-open slice range [start, end) of a page.
func PageBounds(page, pageSize, total int) (start, end int) {
	if pageSize <= 0 || total <= 0 {
		return 0, 0
	}
	start = (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
