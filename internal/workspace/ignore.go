package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type ignoreRule struct {
	pattern string // doublestar syntax, forward slashes
	dirOnly bool   // trailing slash
	anchor  bool   // leading slash
	negate  bool   // leading "!"
}

// IgnoreMatcher applies the patterns of a root .gitignore. A nil matcher
// ignores nothing.
type IgnoreMatcher struct {
	rules []ignoreRule
}

func parseIgnoreRule(line string) (ignoreRule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	var r ignoreRule
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.anchor = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" {
		return ignoreRule{}, false
	}

	// Slash-free patterns match at any depth.
	if !r.anchor && !strings.Contains(line, "/") {
		line = "**/" + line
	}
	r.pattern = filepath.ToSlash(line)
	return r, true
}

// LoadGitignore reads root/.gitignore. It returns a nil matcher when the
// file is missing or holds no patterns.
func LoadGitignore(root string) (*IgnoreMatcher, error) {
	path := filepath.Join(root, ".gitignore")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open .gitignore: %w", err)
	}
	defer f.Close()

	var rules []ignoreRule
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if r, ok := parseIgnoreRule(sc.Text()); ok {
			rules = append(rules, r)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read .gitignore: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return &IgnoreMatcher{rules: rules}, nil
}

// ShouldIgnore reports whether relPath, relative to the root, is ignored.
// Later rules override earlier ones, so a "!" rule can re-include a path.
func (m *IgnoreMatcher) ShouldIgnore(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}

	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "/")

	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.matches(relPath) {
			ignored = !r.negate
		}
	}
	return ignored
}

// Paths under an ignored directory are never asked about because the walk
// skips the directory, so matching the full path is enough.
func (r ignoreRule) matches(relPath string) bool {
	ok, err := doublestar.Match(r.pattern, relPath)
	return err == nil && ok
}
