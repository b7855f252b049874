package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewEmptyPathIsNop(t *testing.T) {
	logger, err := New("", "info")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected no-op logger")
	}
}

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sheetrelay.log")
	logger, err := New(path, "info")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("conversion stored", zap.String("direction", "excel-to-json"))
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines; want 1 (debug filtered):\n%s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry[FieldMessage] != "conversion stored" {
		t.Errorf("%s = %v", FieldMessage, entry[FieldMessage])
	}
	if entry[FieldLevel] != "info" {
		t.Errorf("%s = %v", FieldLevel, entry[FieldLevel])
	}
	if entry["direction"] != "excel-to-json" {
		t.Errorf("direction = %v", entry["direction"])
	}
	if _, ok := entry[FieldTimestamp]; !ok {
		t.Errorf("missing %s", FieldTimestamp)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "x.log"), "chatty"); err == nil {
		t.Error("New accepted an unknown level")
	}
}
