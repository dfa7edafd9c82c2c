package rules

import "strings"

// Compact removes all whitespace from s.
func Compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ContainsAny reports whether text contains at least one marker.
func ContainsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// ContainsAnyCompact matches markers against text with whitespace removed
// from both sides, so "할 수" and "할수" are the same marker.
func ContainsAnyCompact(text string, markers []string) bool {
	compact := Compact(text)
	for _, m := range markers {
		cm := Compact(m)
		if cm != "" && strings.Contains(compact, cm) {
			return true
		}
	}
	return false
}
