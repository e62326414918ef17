package types

import "strings"

// NormalizeQuery collapses internal whitespace runs to a single space and
// trims the ends. The result is both the cache key and the predicate input,
// so "New   York" and "New York" resolve identically. A whitespace-only
// query normalizes to the empty string.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
