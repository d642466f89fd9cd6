package envfile

import (
	"strings"
)

const (
	commentMarker = "#"

	singleQuote = '\''
	doubleQuote = '"'
)

// encodeValue renders value for the right-hand side of an assignment. The
// previous quote style is kept when it can still represent the value; bare
// values are only quoted when they would not survive a reparse.
func encodeValue(value string, prev byte) (string, byte) {
	switch prev {
	case singleQuote:
		if !strings.ContainsAny(value, "'\n\r") {
			return "'" + value + "'", singleQuote
		}
		return quoteDouble(value), doubleQuote
	case doubleQuote:
		return quoteDouble(value), doubleQuote
	}
	if needsQuoting(value) {
		return quoteDouble(value), doubleQuote
	}
	return value, 0
}

func needsQuoting(value string) bool {
	if value == "" {
		return false
	}
	if strings.TrimSpace(value) != value {
		return true
	}
	if value[0] == singleQuote || value[0] == doubleQuote {
		return true
	}
	return strings.ContainsAny(value, "#\n\r")
}

func quoteDouble(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte(doubleQuote)
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(doubleQuote)
	return b.String()
}

// scanQuoted finds the closing quote of s, which starts with a quote
// character. It returns the index of the closing quote or -1.
func scanQuoted(s string) int {
	q := s[0]
	for i := 1; i < len(s); i++ {
		c := s[i]
		if q == doubleQuote && c == '\\' {
			i++
			continue
		}
		if c == q {
			return i
		}
	}
	return -1
}

// unescapeDouble decodes the body of a double-quoted value. Unknown escapes
// are kept as written.
func unescapeDouble(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch n := s[i]; n {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '"', '$':
			b.WriteByte(n)
		default:
			b.WriteByte('\\')
			b.WriteByte(n)
		}
	}
	return b.String()
}

func decodeValue(raw string, quote byte) string {
	switch quote {
	case singleQuote:
		return raw[1 : len(raw)-1]
	case doubleQuote:
		return unescapeDouble(raw[1 : len(raw)-1])
	}
	return raw
}

// ValidKey reports whether key can be used as an assignment name.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '.' || c == '-'):
		default:
			return false
		}
	}
	return true
}
