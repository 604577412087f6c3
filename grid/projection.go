package grid

import "strings"

// Filter derives the searched view of a record set. The match is a
// case-insensitive substring test over the fields extracted from each row;
// a blank or whitespace-only query returns the input untouched, preserving
// the store's ordering. Pure: same inputs, same output, same order.
func Filter[R any](rows []R, query string, fields func(R) []string) []R {
	q := strings.TrimSpace(query)
	if q == "" {
		return rows
	}
	q = strings.ToLower(q)

	filtered := make([]R, 0, len(rows))
	for _, row := range rows {
		for _, field := range fields(row) {
			if strings.Contains(strings.ToLower(field), q) {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}
