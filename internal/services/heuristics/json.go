package heuristics

import "strings"

// ExtractJSONObject returns the text from the first "{" to the last "}",
// tolerating prose around a JSON reply. ok is false when no such span exists.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}
