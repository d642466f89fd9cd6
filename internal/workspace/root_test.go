package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	t.Run("finds pnpm workspace root", func(t *testing.T) {
		tmp := t.TempDir()
		sub := filepath.Join(tmp, "apps", "web")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(tmp, "pnpm-workspace.yaml"), []byte{}, 0644); err != nil {
			t.Fatal(err)
		}

		root, err := FindRoot(sub)
		if err != nil {
			t.Fatalf("FindRoot: %v", err)
		}
		if root != tmp {
			t.Errorf("got %q, want %q", root, tmp)
		}
	})

	t.Run("finds git root", func(t *testing.T) {
		tmp := t.TempDir()
		sub := filepath.Join(tmp, "src")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(filepath.Join(tmp, ".git"), 0755); err != nil {
			t.Fatal(err)
		}

		root, err := FindRoot(sub)
		if err != nil {
			t.Fatalf("FindRoot: %v", err)
		}
		if root != tmp {
			t.Errorf("got %q, want %q", root, tmp)
		}
	})

	t.Run("returns start dir when no markers", func(t *testing.T) {
		tmp := t.TempDir()

		root, err := FindRoot(tmp)
		if err != nil {
			t.Fatalf("FindRoot: %v", err)
		}
		if root != tmp {
			t.Errorf("got %q, want %q", root, tmp)
		}
	})

	t.Run("nearest marker wins", func(t *testing.T) {
		tmp := t.TempDir()
		nested := filepath.Join(tmp, "packages", "lib")
		sub := filepath.Join(nested, "src")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(filepath.Join(tmp, ".git"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(nested, "go.work"), []byte{}, 0644); err != nil {
			t.Fatal(err)
		}

		root, err := FindRoot(sub)
		if err != nil {
			t.Fatalf("FindRoot: %v", err)
		}
		if root != nested {
			t.Errorf("got %q, want %q", root, nested)
		}
	})
}

func TestMarker(t *testing.T) {
	tmp := t.TempDir()
	if got := Marker(tmp); got != "" {
		t.Errorf("Marker() = %q, want empty", got)
	}

	if err := os.WriteFile(filepath.Join(tmp, "turbo.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(tmp, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if got := Marker(tmp); got != "turbo.json" {
		t.Errorf("Marker() = %q, want turbo.json", got)
	}
}
