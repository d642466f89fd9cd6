package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/xmazu/envq/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelWarn,
		"bogus":   slog.LevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
		logger.Info("parsed", "lines", 3)

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
		}
		if rec["msg"] != "parsed" {
			t.Errorf("msg = %v, want parsed", rec["msg"])
		}
		if rec["app"] != "envq" {
			t.Errorf("app = %v, want envq", rec["app"])
		}
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info message logged at warn level: %q", out)
		}
		if !strings.Contains(out, "shown") {
			t.Errorf("warn message missing: %q", out)
		}
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() logger should not be enabled for errors")
	}
}
