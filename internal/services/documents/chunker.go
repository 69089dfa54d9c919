package documents

import (
	"strings"
	"unicode"
)

// Chunk splits text into windows of size runes, each starting size-overlap runes
// after the previous one. Windows are trimmed and empty windows are skipped.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(normalizeSpace(text))
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// normalizeSpace collapses runs of horizontal whitespace and blank lines
func normalizeSpace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	newlines := 0
	for _, r := range strings.TrimSpace(text) {
		switch {
		case r == '\n':
			newlines++
			lastSpace = false
			if newlines <= 2 {
				b.WriteRune('\n')
			}
		case unicode.IsSpace(r):
			if !lastSpace && newlines == 0 {
				b.WriteRune(' ')
			}
			lastSpace = true
		default:
			newlines = 0
			lastSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
