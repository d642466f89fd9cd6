// Package edit applies document operations to .env files on disk.
package edit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xmazu/envq/internal/envfile"
	"github.com/xmazu/envq/internal/storage"
)

const (
	DefaultFile    = ".env"
	MaxSearchDepth = 16
)

// ResolvePath joins path onto workdir and makes it absolute. An empty path
// means DefaultFile.
func ResolvePath(path, workdir string) (string, error) {
	if path == "" {
		path = DefaultFile
	}
	if workdir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(workdir, path)
	}
	return filepath.Abs(path)
}

// FindInParents returns the nearest DefaultFile in dir or one of its first
// maxDepth ancestors.
func FindInParents(dir string, maxDepth int) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	for i := 0; i < maxDepth; i++ {
		path := filepath.Join(dir, DefaultFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s found in current or parent directories (searched up to %d levels)", DefaultFile, maxDepth)
}

// Load reads and parses the file at path.
func Load(path string) (*envfile.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := envfile.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Apply loads path, runs fn on the document and writes the result back
// atomically. Nothing is written when fn fails or leaves the text unchanged.
func Apply(path string, fn func(*envfile.Document) error) (changed bool, err error) {
	doc, err := Load(path)
	if err != nil {
		return false, err
	}
	before := doc.String()

	if err := fn(doc); err != nil {
		return false, err
	}

	after := doc.String()
	if after == before {
		return false, nil
	}
	if err := storage.WriteFileAtomic(path, []byte(after), 0600); err != nil {
		return false, fmt.Errorf("save %s: %w", path, err)
	}
	return true, nil
}

// MaskValue hides all but the tail of a value, e.g. "****WXYZ".
// Lengths count runes, so multi-byte characters are never split.
func MaskValue(value string) string {
	r := []rune(value)
	n := len(r)
	switch {
	case n == 0:
		return ""
	case n <= 4:
		return strings.Repeat("*", n)
	case n <= 8:
		return strings.Repeat("*", n-2) + string(r[n-2:])
	default:
		return strings.Repeat("*", n-4) + string(r[n-4:])
	}
}
