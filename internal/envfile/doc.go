// Package envfile reads and edits .env files without disturbing their layout.
//
// Parse turns text into a Document that remembers every blank line, comment
// and byte of spacing it saw. Queries and edits act on the first entry for a
// key, and Document.String writes the text back. For any text Parse accepts,
// Parse(text).String() == text.
//
//	doc, err := envfile.Parse("# settings\n\nPORT=8080 # http\n")
//	if err != nil {
//		return err
//	}
//	_ = doc.Set("PORT", "9090")
//	fmt.Print(doc) // # settings\n\nPORT=9090 # http\n
//
// The package does no I/O beyond ParseReader and Document.WriteTo.
package envfile
