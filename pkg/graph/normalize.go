package graph

import "strings"

// IsAbsent reports whether a raw cell value carries no data: empty,
// whitespace only, or a "None"/"NULL" placeholder in any letter case.
func IsAbsent(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "none") || strings.EqualFold(t, "null")
}

// Clean returns the trimmed value of a cell, or "" when the cell is absent.
func Clean(s string) string {
	if IsAbsent(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
