package envfile

import "strings"

// Line is one physical line after the header: *Blank, *Comment or *Entry.
type Line interface {
	line()
}

// Blank is a line containing only whitespace. Raw keeps that whitespace.
type Blank struct {
	Raw string
}

// Comment is a standalone comment line, kept verbatim.
type Comment struct {
	Raw string
}

// Text returns the comment without its marker and surrounding whitespace.
func (c *Comment) Text() string {
	return commentText(c.Raw)
}

// HeaderLine is one comment line of the leading header block.
type HeaderLine struct {
	Raw string
}

// Text strips the marker and a single following space.
func (h HeaderLine) Text() string {
	s := strings.TrimRight(strings.TrimLeft(h.Raw, " \t"), "\r")
	s = strings.TrimPrefix(s, commentMarker)
	return strings.TrimPrefix(s, " ")
}

// Entry is a KEY=VALUE assignment with an optional inline comment.
type Entry struct {
	Key   string
	Value string

	layout entryLayout
}

// entryLayout is everything needed to render an entry exactly as it was read:
//
//	indent export key keyPad = valuePad rawValue gap commentRaw cr
type entryLayout struct {
	indent     string
	export     string
	keyPad     string
	valuePad   string
	rawValue   string
	quote      byte
	gap        string
	commentRaw string
	cr         string
}

// Comment returns the inline comment text and whether the entry has one.
func (e *Entry) Comment() (string, bool) {
	if e.layout.commentRaw == "" {
		return "", false
	}
	return commentText(e.layout.commentRaw), true
}

// Exported reports whether the entry was written with an export prefix.
func (e *Entry) Exported() bool {
	return e.layout.export != ""
}

// Quote returns the quote character the value is written with, or 0.
func (e *Entry) Quote() byte {
	return e.layout.quote
}

func (e *Entry) setValue(value string) {
	e.Value = value
	e.layout.rawValue, e.layout.quote = encodeValue(value, e.layout.quote)
	// An empty value may sit directly against its comment; keep them apart.
	if e.layout.rawValue != "" && e.layout.commentRaw != "" && e.layout.gap == "" {
		e.layout.gap = " "
	}
}

func (e *Entry) setComment(text string) {
	if e.layout.gap == "" {
		e.layout.gap = " "
	}
	if text == "" {
		e.layout.commentRaw = commentMarker
		return
	}
	e.layout.commentRaw = commentMarker + " " + text
}

func (e *Entry) clearComment() {
	if e.layout.commentRaw == "" {
		return
	}
	e.layout.commentRaw = ""
	e.layout.gap = ""
}

func (e *Entry) render() string {
	l := e.layout
	var b strings.Builder
	b.Grow(len(l.indent) + len(l.export) + len(e.Key) + len(l.keyPad) + 1 +
		len(l.valuePad) + len(l.rawValue) + len(l.gap) + len(l.commentRaw) + len(l.cr))
	b.WriteString(l.indent)
	b.WriteString(l.export)
	b.WriteString(e.Key)
	b.WriteString(l.keyPad)
	b.WriteByte('=')
	b.WriteString(l.valuePad)
	b.WriteString(l.rawValue)
	b.WriteString(l.gap)
	b.WriteString(l.commentRaw)
	b.WriteString(l.cr)
	return b.String()
}

func (e *Entry) clone() *Entry {
	c := *e
	return &c
}

func (*Blank) line()   {}
func (*Comment) line() {}
func (*Entry) line()   {}

func commentText(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, commentMarker)
	return strings.TrimSpace(s)
}
