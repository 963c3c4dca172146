package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses whitespace so multi-line statements read
// as one line in span attributes, then truncates long ones.
func formatDBQueryForTrace(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) > maxTracedQueryLength {
		return query[:maxTracedQueryLength] + "..."
	}
	return query
}
