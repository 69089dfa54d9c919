package pdf

import (
	"strings"
)

// ContentStreamText pulls the literal strings shown by text operators out of
// a raw page content stream. Tj, ' and " show one string; TJ shows an array in
// which large negative kerning is treated as a word gap. T*, Td and TD start a
// new line. Font encodings are not decoded, so only simple-encoded text survives.
func ContentStreamText(stream string) string {
	var (
		out     strings.Builder
		line    strings.Builder
		pending []string
		inArray bool
		arrBuf  strings.Builder
	)

	flushLine := func() {
		text := strings.TrimSpace(line.String())
		if text != "" {
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
			out.WriteString(text)
		}
		line.Reset()
	}

	i := 0
	for i < len(stream) {
		c := stream[i]
		switch {
		case c == '(':
			s, next := readLiteral(stream, i)
			if inArray {
				arrBuf.WriteString(s)
			} else {
				pending = append(pending, s)
			}
			i = next
			continue
		case c == '[':
			inArray = true
			arrBuf.Reset()
		case c == ']':
			if inArray {
				pending = append(pending, arrBuf.String())
				inArray = false
			}
		case inArray && (c == '-' || (c >= '0' && c <= '9')):
			j := i
			for j < len(stream) && (stream[j] == '-' || stream[j] == '.' || (stream[j] >= '0' && stream[j] <= '9')) {
				j++
			}
			if strings.HasPrefix(stream[i:j], "-") && len(stream[i:j]) > 3 {
				arrBuf.WriteByte(' ')
			}
			i = j
			continue
		case isOperatorStart(c):
			j := i
			for j < len(stream) && !isDelimiter(stream[j]) {
				j++
			}
			switch stream[i:j] {
			case "Tj", "TJ":
				for _, s := range pending {
					line.WriteString(s)
				}
			case "'", "\"":
				flushLine()
				for _, s := range pending {
					line.WriteString(s)
				}
			case "T*", "Td", "TD", "ET":
				flushLine()
			}
			pending = pending[:0]
			i = j
			continue
		}
		i++
	}
	flushLine()

	return out.String()
}

func isOperatorStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '\'' || c == '"' || c == '*'
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '[', ']', '<', '>', '/', '{', '}', '%':
		return true
	}
	return false
}

// readLiteral decodes a PDF literal string starting at the opening parenthesis.
// It returns the decoded text and the index just past the closing parenthesis.
func readLiteral(s string, start int) (string, int) {
	var b strings.Builder
	depth := 0
	i := start
	for i < len(s) {
		c := s[i]
		switch c {
		case '(':
			if depth > 0 {
				b.WriteByte(c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
		case '\\':
			if i+1 >= len(s) {
				i++
				continue
			}
			i++
			switch e := s[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := 0
				k := 0
				for k < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7' {
					v = v*8 + int(s[i]-'0')
					i++
					k++
				}
				b.WriteByte(byte(v))
				continue
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
		i++
	}
	return b.String(), i
}
