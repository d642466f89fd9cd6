package workspace

import (
	"strings"
	"testing"
)

func TestBuildEnvTree(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		check func(t *testing.T, root *EnvTreeNode)
	}{
		{
			name:  "single file",
			paths: []string{".env"},
			check: func(t *testing.T, root *EnvTreeNode) {
				if root.Name != "." {
					t.Errorf("root.Name = %q, want '.'", root.Name)
				}
				if len(root.Children) != 1 {
					t.Fatalf("len(root.Children) = %d, want 1", len(root.Children))
				}
				if ch := root.Children[0]; ch.Name != ".env" || ch.File != ".env" {
					t.Errorf("child = %+v, want .env file", ch)
				}
			},
		},
		{
			name:  "nested files share directories",
			paths: []string{"packages/app/.env", "packages/api/.env"},
			check: func(t *testing.T, root *EnvTreeNode) {
				if len(root.Children) != 1 {
					t.Fatalf("len(root.Children) = %d, want 1", len(root.Children))
				}
				pkgs := root.Children[0]
				if pkgs.Name != "packages" || pkgs.IsFile() {
					t.Errorf("child = %+v, want packages dir", pkgs)
				}
				if len(pkgs.Children) != 2 {
					t.Fatalf("len(packages.Children) = %d, want 2", len(pkgs.Children))
				}
				if pkgs.Children[0].Name != "api" {
					t.Errorf("first = %q, want api", pkgs.Children[0].Name)
				}
			},
		},
		{
			name:  "files before directories",
			paths: []string{"packages/app/.env", ".env.local", ".env"},
			check: func(t *testing.T, root *EnvTreeNode) {
				var names []string
				for _, ch := range root.Children {
					names = append(names, ch.Name)
				}
				if got := strings.Join(names, ","); got != ".env,.env.local,packages" {
					t.Errorf("children = %s, want .env,.env.local,packages", got)
				}
			},
		},
		{
			name:  "empty paths",
			paths: nil,
			check: func(t *testing.T, root *EnvTreeNode) {
				if len(root.Children) != 0 {
					t.Errorf("len(root.Children) = %d, want 0", len(root.Children))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, BuildEnvTree(tt.paths))
		})
	}
}

func TestPrintEnvTree(t *testing.T) {
	root := BuildEnvTree([]string{".env", "apps/api/.env", "apps/web/.env.local"})

	var b strings.Builder
	if err := PrintEnvTree(&b, root); err != nil {
		t.Fatalf("PrintEnvTree() error = %v", err)
	}

	want := strings.Join([]string{
		"├─ .env",
		"└─ apps/",
		"   ├─ api/",
		"   │  └─ .env",
		"   └─ web/",
		"      └─ .env.local",
		"",
	}, "\n")
	if got := b.String(); got != want {
		t.Errorf("PrintEnvTree() =\n%s\nwant\n%s", got, want)
	}
}
