package audit

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestLog(t *testing.T) {
	tmp := t.TempDir()

	err := Log(tmp, OpSetKey, ".env", WithKey("TEST_KEY"), WithSource("cli"))
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if _, err := os.Stat(Path(tmp)); err != nil {
		t.Fatalf("audit file not created: %v", err)
	}

	entries, err := Show(tmp, 10)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("entries count = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Op != string(OpSetKey) {
		t.Errorf("op = %q, want %q", e.Op, OpSetKey)
	}
	if e.Key != "TEST_KEY" {
		t.Errorf("key = %q, want TEST_KEY", e.Key)
	}
	if e.File != ".env" {
		t.Errorf("file = %q, want .env", e.File)
	}
	if e.Source != "cli" {
		t.Errorf("src = %q, want cli", e.Source)
	}
}

func TestLog_HeaderOpsHaveNoKey(t *testing.T) {
	tmp := t.TempDir()

	if err := Log(tmp, OpDelHeader, ".env"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	content, err := os.ReadFile(Path(tmp))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if strings.Contains(string(content), `"key"`) {
		t.Errorf("header entry should omit key: %s", content)
	}
}

func TestLog_MultipleEntries(t *testing.T) {
	tmp := t.TempDir()

	for i := 0; i < 5; i++ {
		err := Log(tmp, OpSetKey, ".env", WithKey("KEY"))
		if err != nil {
			t.Fatalf("Log %d failed: %v", i, err)
		}
	}

	entries, err := Show(tmp, 0)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	if len(entries) != 5 {
		t.Errorf("entries count = %d, want 5", len(entries))
	}
}

func TestShow_LastN(t *testing.T) {
	tmp := t.TempDir()

	ops := []Op{OpSetKey, OpSetComment, OpSetHeader, OpDelKey, OpDelComment, OpDelHeader}
	for _, op := range ops {
		if err := Log(tmp, op, ".env"); err != nil {
			t.Fatalf("Log %s failed: %v", op, err)
		}
	}

	entries, err := Show(tmp, 2)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("entries count = %d, want 2", len(entries))
	}
	if entries[1].Op != string(OpDelHeader) {
		t.Errorf("last op = %q, want %q", entries[1].Op, OpDelHeader)
	}
}

func TestShow_NoLog(t *testing.T) {
	_, err := Show(t.TempDir(), 10)
	if !errors.Is(err, ErrNoAuditLog) {
		t.Errorf("error = %v, want ErrNoAuditLog", err)
	}
}

func TestVerify(t *testing.T) {
	tmp := t.TempDir()
	sid := NewSessionID()

	for i := 0; i < 5; i++ {
		err := Log(tmp, OpSetKey, ".env", WithSessionID(sid))
		if err != nil {
			t.Fatalf("Log %d failed: %v", i, err)
		}
	}

	result, err := Verify(tmp)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.TotalEntries != 5 {
		t.Errorf("total entries = %d, want 5", result.TotalEntries)
	}
	if len(result.Breaks) != 0 {
		t.Errorf("breaks = %v, want empty", result.Breaks)
	}
}

func TestVerify_NoLog(t *testing.T) {
	_, err := Verify(t.TempDir())
	if !errors.Is(err, ErrNoAuditLog) {
		t.Errorf("error = %v, want ErrNoAuditLog", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	tmp := t.TempDir()

	for i := 0; i < 3; i++ {
		if err := Log(tmp, OpSetKey, ".env"); err != nil {
			t.Fatalf("Log %d failed: %v", i, err)
		}
	}

	path := Path(tmp)
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}

	tampered := string(content) + `{"ts":"2026-01-01T00:00:00Z","op":"set_key","file":".env","prev_hash":"tampered"}` + "\n"
	if err := os.WriteFile(path, []byte(tampered), 0644); err != nil {
		t.Fatalf("write tampered log: %v", err)
	}

	result, err := Verify(tmp)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(result.Breaks) != 1 || result.Breaks[0] != 4 {
		t.Errorf("breaks = %v, want [4]", result.Breaks)
	}
}

func TestVerify_DeletedMiddle(t *testing.T) {
	tmp := t.TempDir()

	for i := 0; i < 5; i++ {
		if err := Log(tmp, OpSetKey, ".env", WithKey(fmt.Sprintf("KEY_%d", i))); err != nil {
			t.Fatalf("Log %d failed: %v", i, err)
		}
	}

	path := Path(tmp)
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	kept := append(lines[:2:2], lines[3:]...)
	if err := os.WriteFile(path, []byte(strings.Join(kept, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("rewrite audit log: %v", err)
	}

	result, err := Verify(tmp)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(result.Breaks) == 0 {
		t.Error("expected breaks after deletion")
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == "" || a == b {
		t.Errorf("NewSessionID() = %q, %q; want distinct non-empty ids", a, b)
	}
}
