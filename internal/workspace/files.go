package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExcludeDirs are skipped even without a .gitignore.
var DefaultExcludeDirs = []string{
	".git",
	".envq",
	"node_modules",
	"vendor",
	".cache",
	".turbo",
	".next",
}

// IsEnvFilename reports whether name is ".env" or ".env.<suffix>".
func IsEnvFilename(name string) bool {
	return name == ".env" || (strings.HasPrefix(name, ".env.") && len(name) > len(".env."))
}

// ListEnvFiles returns the env files under root as sorted, slash-separated
// paths relative to root. Directories in DefaultExcludeDirs and paths
// matched by root/.gitignore are skipped.
func ListEnvFiles(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	ignore, err := LoadGitignore(root)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(DefaultExcludeDirs))
	for _, d := range DefaultExcludeDirs {
		excluded[d] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excluded[d.Name()] || ignore.ShouldIgnore(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsEnvFilename(d.Name()) && !ignore.ShouldIgnore(rel, false) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
