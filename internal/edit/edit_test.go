package edit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xmazu/envq/internal/envfile"
)

func writeEnv(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	return path
}

func TestFindInParents(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := writeEnv(t, tmpDir, "KEY=value\n")

	t.Run("finds .env in given dir", func(t *testing.T) {
		got, err := FindInParents(tmpDir, 5)
		if err != nil {
			t.Fatalf("FindInParents() error = %v", err)
		}
		if got != envPath {
			t.Errorf("FindInParents() = %q, want %q", got, envPath)
		}
	})

	t.Run("finds .env in parent", func(t *testing.T) {
		sub := filepath.Join(tmpDir, "a", "b")
		if err := os.MkdirAll(sub, 0700); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		got, err := FindInParents(sub, 5)
		if err != nil {
			t.Fatalf("FindInParents() error = %v", err)
		}
		if got != envPath {
			t.Errorf("FindInParents() = %q, want %q", got, envPath)
		}
	})

	t.Run("returns error beyond depth", func(t *testing.T) {
		deep := filepath.Join(tmpDir, "a", "b", "c")
		if err := os.MkdirAll(deep, 0700); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if _, err := FindInParents(deep, 2); err == nil {
			t.Error("FindInParents() should error when .env not found within depth")
		}
	})
}

func TestResolvePath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		workdir string
		want    string
	}{
		{"default file in workdir", "", tmpDir, filepath.Join(tmpDir, ".env")},
		{"relative path in workdir", "apps/.env.local", tmpDir, filepath.Join(tmpDir, "apps", ".env.local")},
		{"absolute path ignores workdir", filepath.Join(tmpDir, "x.env"), "/elsewhere", filepath.Join(tmpDir, "x.env")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.path, tt.workdir)
			if err != nil {
				t.Fatalf("ResolvePath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("parses file", func(t *testing.T) {
		path := writeEnv(t, t.TempDir(), "# header\n\nA=1\n")
		doc, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := doc.Header(); got != "header" {
			t.Errorf("Header() = %q, want %q", got, "header")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), ".env"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error = %v, want not exist", err)
		}
	})

	t.Run("parse error names the file", func(t *testing.T) {
		path := writeEnv(t, t.TempDir(), "A=1\nnot an assignment\n")
		_, err := Load(path)
		var perr *envfile.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Load() error = %v, want ParseError", err)
		}
		if perr.Line != 2 {
			t.Errorf("ParseError.Line = %d, want 2", perr.Line)
		}
	})
}

func TestApply(t *testing.T) {
	t.Run("writes changes", func(t *testing.T) {
		path := writeEnv(t, t.TempDir(), "A=1 # one\nB=2\n")

		changed, err := Apply(path, func(doc *envfile.Document) error {
			return doc.Set("A", "10")
		})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !changed {
			t.Error("Apply() changed = false, want true")
		}

		got, _ := os.ReadFile(path)
		if string(got) != "A=10 # one\nB=2\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("skips write when unchanged", func(t *testing.T) {
		path := writeEnv(t, t.TempDir(), "A=1\n")
		before, _ := os.Stat(path)

		changed, err := Apply(path, func(doc *envfile.Document) error {
			return doc.DeleteComment("A")
		})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if changed {
			t.Error("Apply() changed = true, want false")
		}
		after, _ := os.Stat(path)
		if !os.SameFile(before, after) {
			t.Error("file was replaced although nothing changed")
		}
	})

	t.Run("leaves file alone on error", func(t *testing.T) {
		path := writeEnv(t, t.TempDir(), "A=1\n")

		_, err := Apply(path, func(doc *envfile.Document) error {
			return doc.Delete("MISSING")
		})
		if !errors.Is(err, envfile.ErrKeyNotFound) {
			t.Fatalf("Apply() error = %v, want ErrKeyNotFound", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != "A=1\n" {
			t.Errorf("content = %q, want unchanged", got)
		}
	})
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcdef", "****ef"},
		{"sk-1234567890WXYZ", "*************WXYZ"},
		{"pässwörd", "******rd"},
		{"geheimnis-äöüß", "**********äöüß"},
		{"日本語", "***"},
	}
	for _, tt := range tests {
		if got := MaskValue(tt.in); got != tt.want {
			t.Errorf("MaskValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
