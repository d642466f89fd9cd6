package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootMarkers are checked in order in each directory walking upward. The
// first directory holding any of them is the workspace root.
var RootMarkers = []string{
	"go.work",
	"pnpm-workspace.yaml",
	"turbo.json",
	"lerna.json",
	"settings.gradle",
	"settings.gradle.kts",
	".git",
}

// FindRoot walks up from dir to the nearest workspace root. When no marker
// is found dir itself is returned.
func FindRoot(dir string) (string, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for cur := start; ; {
		if Marker(cur) != "" {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return start, nil
		}
		cur = parent
	}
}

// Marker returns the first root marker present in dir, or "".
func Marker(dir string) string {
	for _, marker := range RootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return marker
		}
	}
	return ""
}
