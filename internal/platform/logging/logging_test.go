package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"folio/internal/platform/logging"
)

func TestJSONLoggerCarriesComponent(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.For(logging.New(logging.Config{Level: "debug", Format: "json", Output: buf}), "reader")
	logger.Debug("render committed", slog.Int("page", 3))

	entry := map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["component"] != "reader" || entry["page"] != float64(3) {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New(logging.Config{Level: "warn", Output: buf})
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if logging.ParseLevel("nonsense") != slog.LevelInfo {
		t.Fatalf("unknown level should default to info")
	}
}
