package domain

import "math"

// Page is one slice of a paginated listing. Page numbers start at 0.
type Page[T any] struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Data  []T `json:"data"`
}

// Offset returns the number of rows to skip for the given page and limit.
// It saturates at math.MaxInt instead of overflowing.
func Offset(page, limit int) int {
	if page <= 0 || limit <= 0 {
		return 0
	}
	if page > math.MaxInt/limit {
		return math.MaxInt
	}
	return page * limit
}
