package envfile

import (
	"io"
	"strings"
)

// Parse builds a Document from text. Every line is classified exactly once;
// the first line that is not blank, a comment or a KEY=VALUE assignment
// fails the whole parse with a *ParseError.
//
// The header is the run of comment lines starting at the first line of the
// text. The first blank line or assignment ends it; comments after that are
// kept as standalone Comment lines.
func Parse(text string) (*Document, error) {
	d := &Document{}
	if text == "" {
		return d, nil
	}

	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		d.finalNewline = true
		raw = raw[:len(raw)-1]
	}
	d.crlf = strings.HasSuffix(raw[0], "\r")

	inHeader := true
	for i, line := range raw {
		num := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			inHeader = false
			d.lines = append(d.lines, &Blank{Raw: line})
			continue
		}

		if strings.HasPrefix(trimmed, commentMarker) {
			if inHeader {
				d.header = append(d.header, HeaderLine{Raw: line})
			} else {
				d.lines = append(d.lines, &Comment{Raw: line})
			}
			continue
		}

		inHeader = false
		entry, err := parseEntry(line, num)
		if err != nil {
			return nil, err
		}
		d.lines = append(d.lines, entry)
	}

	return d, nil
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b))
}

func parseEntry(line string, num int) (*Entry, error) {
	fail := func(reason string) error {
		return &ParseError{Line: num, Text: line, Reason: reason}
	}

	var l entryLayout
	body, hasCR := strings.CutSuffix(line, "\r")
	if hasCR {
		l.cr = "\r"
	}

	rest := strings.TrimLeft(body, " \t")
	l.indent = body[:len(body)-len(rest)]

	if after, ok := cutExport(rest); ok {
		l.export = rest[:len(rest)-len(after)]
		rest = after
	}

	eq := strings.IndexByte(rest, '=')
	if eq == -1 {
		return nil, fail("expected KEY=VALUE, comment or blank line")
	}

	key := strings.TrimRight(rest[:eq], " \t")
	l.keyPad = rest[len(key):eq]
	if !ValidKey(key) {
		return nil, fail("invalid key")
	}

	v := rest[eq+1:]
	trimmed := strings.TrimLeft(v, " \t")
	l.valuePad = v[:len(v)-len(trimmed)]
	v = trimmed

	if v != "" && (v[0] == singleQuote || v[0] == doubleQuote) {
		end := scanQuoted(v)
		if end == -1 {
			return nil, fail("unterminated quoted value")
		}
		l.rawValue = v[:end+1]
		l.quote = v[0]

		after := v[end+1:]
		tail := strings.TrimLeft(after, " \t")
		if tail != "" && !strings.HasPrefix(tail, commentMarker) {
			return nil, fail("unexpected text after quoted value")
		}
		l.gap = after[:len(after)-len(tail)]
		l.commentRaw = tail
	} else {
		valuePart := v
		if i := strings.Index(v, commentMarker); i != -1 {
			valuePart = v[:i]
			l.commentRaw = v[i:]
		}
		l.rawValue = strings.TrimRight(valuePart, " \t")
		l.gap = valuePart[len(l.rawValue):]
	}

	return &Entry{
		Key:    key,
		Value:  decodeValue(l.rawValue, l.quote),
		layout: l,
	}, nil
}

// cutExport strips a leading "export" keyword when it is followed by
// whitespace and an assignment, so that a key named "export" still parses.
func cutExport(s string) (string, bool) {
	after, ok := strings.CutPrefix(s, "export")
	if !ok || after == "" || (after[0] != ' ' && after[0] != '\t') {
		return s, false
	}
	after = strings.TrimLeft(after, " \t")
	eq := strings.IndexByte(after, '=')
	if eq <= 0 || !ValidKey(strings.TrimRight(after[:eq], " \t")) {
		return s, false
	}
	return after, true
}
