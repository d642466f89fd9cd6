package envfile

import (
	"io"
	"strings"
)

// Document is a parsed .env file. It keeps every line in file order so that
// String reproduces the input byte for byte when nothing was changed.
//
// Keys may repeat. Every lookup and mutation acts on the first matching
// entry and leaves later duplicates alone.
//
// A Document is not safe for concurrent use.
type Document struct {
	header []HeaderLine
	lines  []Line

	finalNewline bool
	crlf         bool
}

// KeyValue is one assignment as reported by Values.
type KeyValue struct {
	Key   string
	Value string
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Lines returns the lines after the header. The slice is shared with the
// document and must not be modified.
func (d *Document) Lines() []Line {
	return d.lines
}

// HeaderLines returns the header comment lines as written.
func (d *Document) HeaderLines() []HeaderLine {
	return d.header
}

// Keys lists every entry key in document order, duplicates included.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.lines))
	for _, l := range d.lines {
		if e, ok := l.(*Entry); ok {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Values lists every entry in document order, duplicates included.
func (d *Document) Values() []KeyValue {
	kvs := make([]KeyValue, 0, len(d.lines))
	for _, l := range d.lines {
		if e, ok := l.(*Entry); ok {
			kvs = append(kvs, KeyValue{Key: e.Key, Value: e.Value})
		}
	}
	return kvs
}

// Has reports whether any entry uses key.
func (d *Document) Has(key string) bool {
	return d.find(key) != -1
}

// Entry returns the first entry for key.
func (d *Document) Entry(key string) (*Entry, bool) {
	i := d.find(key)
	if i == -1 {
		return nil, false
	}
	return d.lines[i].(*Entry), true
}

// Get returns the value of the first entry for key.
func (d *Document) Get(key string) (string, error) {
	e, ok := d.Entry(key)
	if !ok {
		return "", opError("get", key, ErrKeyNotFound)
	}
	return e.Value, nil
}

// Comment returns the inline comment of the first entry for key. The bool is
// false when the entry has no comment.
func (d *Document) Comment(key string) (string, bool, error) {
	e, ok := d.Entry(key)
	if !ok {
		return "", false, opError("get comment", key, ErrKeyNotFound)
	}
	text, has := e.Comment()
	return text, has, nil
}

// Header returns the header comments with their markers stripped, joined by
// newlines. It is empty when the document has no header.
func (d *Document) Header() string {
	texts := make([]string, len(d.header))
	for i, h := range d.header {
		texts[i] = h.Text()
	}
	return strings.Join(texts, "\n")
}

// Set replaces the value of the first entry for key, keeping its inline
// comment and quote style. When key is absent a new entry is appended.
func (d *Document) Set(key, value string) error {
	if e, ok := d.Entry(key); ok {
		e.setValue(value)
		return nil
	}
	if !ValidKey(key) {
		return opError("set", key, ErrInvalidKey)
	}

	e := &Entry{Key: key}
	e.setValue(value)
	if d.crlf {
		e.layout.cr = "\r"
	}
	d.append(e)
	return nil
}

// SetComment replaces or adds the inline comment on the first entry for key.
func (d *Document) SetComment(key, text string) error {
	if strings.ContainsAny(text, "\n\r") {
		return opError("set comment", key, ErrInvalidComment)
	}
	e, ok := d.Entry(key)
	if !ok {
		return opError("set comment", key, ErrKeyNotFound)
	}
	e.setComment(strings.TrimSpace(text))
	return nil
}

// SetHeader replaces the header. Each line of text becomes one comment line;
// empty text removes the header.
func (d *Document) SetHeader(text string) {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		d.DeleteHeader()
		return
	}

	d.touch()
	hadHeader := len(d.header) > 0

	parts := strings.Split(text, "\n")
	header := make([]HeaderLine, 0, len(parts))
	for _, s := range parts {
		raw := commentMarker
		if s != "" {
			raw += " " + s
		}
		header = append(header, HeaderLine{Raw: raw + d.cr()})
	}
	d.header = header

	if !hadHeader && len(d.lines) > 0 {
		if _, ok := d.lines[0].(*Blank); !ok {
			d.lines = append([]Line{&Blank{Raw: d.cr()}}, d.lines...)
		}
	}
}

// Delete removes the first entry for key together with its inline comment.
func (d *Document) Delete(key string) error {
	i := d.find(key)
	if i == -1 {
		return opError("del", key, ErrKeyNotFound)
	}
	d.lines = append(d.lines[:i:i], d.lines[i+1:]...)
	return nil
}

// DeleteComment removes the inline comment of the first entry for key. It
// is a no-op when the entry has no comment.
func (d *Document) DeleteComment(key string) error {
	e, ok := d.Entry(key)
	if !ok {
		return opError("del comment", key, ErrKeyNotFound)
	}
	e.clearComment()
	return nil
}

// DeleteHeader removes the header and the blank line separating it from the
// rest of the document, if there is one.
func (d *Document) DeleteHeader() {
	if len(d.header) == 0 {
		return
	}
	d.header = nil
	if len(d.lines) == 0 {
		return
	}
	if _, ok := d.lines[0].(*Blank); !ok {
		return
	}
	// A comment right below the separator would become the new header.
	if len(d.lines) > 1 {
		if _, ok := d.lines[1].(*Comment); ok {
			return
		}
	}
	d.lines = d.lines[1:]
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{
		header:       append([]HeaderLine(nil), d.header...),
		lines:        make([]Line, len(d.lines)),
		finalNewline: d.finalNewline,
		crlf:         d.crlf,
	}
	for i, l := range d.lines {
		switch l := l.(type) {
		case *Blank:
			b := *l
			c.lines[i] = &b
		case *Comment:
			cm := *l
			c.lines[i] = &cm
		case *Entry:
			c.lines[i] = l.clone()
		}
	}
	return c
}

// String serializes the document.
func (d *Document) String() string {
	var b strings.Builder
	n := 0
	write := func(s string) {
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
		n++
	}

	for _, h := range d.header {
		write(h.Raw)
	}
	for _, l := range d.lines {
		switch l := l.(type) {
		case *Blank:
			write(l.Raw)
		case *Comment:
			write(l.Raw)
		case *Entry:
			write(l.render())
		}
	}

	if n > 0 && d.finalNewline {
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d *Document) find(key string) int {
	for i, l := range d.lines {
		if e, ok := l.(*Entry); ok && e.Key == key {
			return i
		}
	}
	return -1
}

func (d *Document) append(l Line) {
	d.touch()
	d.lines = append(d.lines, l)
}

// touch gives a document that had no content a trailing newline once
// something is added to it.
func (d *Document) touch() {
	if len(d.header) == 0 && len(d.lines) == 0 {
		d.finalNewline = true
	}
}

func (d *Document) cr() string {
	if d.crlf {
		return "\r"
	}
	return ""
}
