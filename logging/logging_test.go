package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := levelFromString(in); got != want {
			t.Fatalf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("article saved", "id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "article saved" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["id"] != float64(7) {
		t.Fatalf("unexpected id attr: %v", entry["id"])
	}
}
