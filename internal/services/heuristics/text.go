// Package heuristics holds the best-effort extractors that mine structured
// fields out of model-written prose. Every function here is pure: no I/O,
// no logging, no shared state. The results are approximate by nature.
package heuristics

import (
	"strings"
	"unicode/utf8"
)

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// containsAny reports whether any pattern occurs in text. Patterns are
// matched case-insensitively; emoji have no case so they match exactly.
func containsAny(text string, patterns []string) bool {
	lower := strings.ToLower(text)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
