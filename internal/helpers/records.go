package helpers

import (
	"strconv"
	"strings"
)

// NextID returns max(existing id) + 1, or 1 when the collection is empty
func NextID[T any](items []T, id func(T) int) int {
	next := 1
	for _, item := range items {
		if v := id(item); v >= next {
			next = v + 1
		}
	}
	return next
}

// After returns the records whose id is strictly greater than since, in stored order
func After[T any](items []T, since int, id func(T) int) []T {
	result := make([]T, 0)
	for _, item := range items {
		if id(item) > since {
			result = append(result, item)
		}
	}
	return result
}

// ParseSince parses a "since" query value, defaulting to 0.
// Leading digits are honoured the way browser clients send them ("12", "12abc").
func ParseSince(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	end := 0
	if raw[0] == '-' || raw[0] == '+' {
		end = 1
	}
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return n
}
