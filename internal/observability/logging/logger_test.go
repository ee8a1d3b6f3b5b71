package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestJSONLoggerTagsServiceAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "extractor-api", "warn")

	logger.Info("ignored")
	logger.Warn("app_extract_empty_output", "app_id", "A1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one json line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "extractor-api" || entry["app_id"] != "A1" || entry["level"] != "WARN" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry["event"] != "app_extract_empty_output" {
		t.Fatalf("expected message under event key, got %+v", entry)
	}
	if _, ok := entry["msg"]; ok {
		t.Fatalf("msg key should be renamed: %+v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"verbose":   slog.LevelInfo,
		"":          slog.LevelInfo,
		" WARNING ": slog.LevelWarn,
		"debug":     slog.LevelDebug,
		"ERROR":     slog.LevelError,
		"warn+2":    slog.LevelWarn + 2,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
