package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAMLFile is a YAML document on disk decoded into and encoded from a Go value.
type YAMLFile struct {
	path string
}

func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

func (y *YAMLFile) Path() string {
	return y.path
}

func (y *YAMLFile) Exists() bool {
	_, err := os.Stat(y.path)
	return err == nil
}

// LoadOrDefault decodes the file into dest. A missing file leaves dest
// untouched, so callers pre-fill it with defaults.
func (y *YAMLFile) LoadOrDefault(dest any) error {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", y.path, err)
	}

	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", y.path, err)
	}

	return nil
}

func (y *YAMLFile) Save(data any) error {
	if err := os.MkdirAll(filepath.Dir(y.path), 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	return WriteFileAtomic(y.path, out, 0600)
}
