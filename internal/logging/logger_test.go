package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pxrd/internal/config"
	"pxrd/internal/logging"
)

func TestConsoleLoggerFormatsComponentAndSpectrum(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "catalog")
	logger.Info("spectrum created", logging.Spectrum("quartz"), logging.Int("points", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO catalog: spectrum created [quartz]") {
		t.Fatalf("unexpected console line %q", line)
	}
	if !strings.Contains(line, "points=3") {
		t.Fatalf("expected points attribute, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
}

func TestConsoleLoggerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("failed", logging.Error(errors.New("bad line 3")))
	if !strings.Contains(buf.String(), `error="bad line 3"`) {
		t.Fatalf("expected quoted error, got %q", buf.String())
	}
}

func TestConsoleLoggerFormatsSizesAndDurations(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("decoded file", logging.Int64("bytes", 5<<20), logging.Duration("elapsed", 1500*time.Millisecond))
	line := buf.String()
	if !strings.Contains(line, "bytes=5242880") {
		t.Fatalf("expected byte count, got %q", line)
	}
	if !strings.Contains(line, "elapsed=1.5s") {
		t.Fatalf("expected duration, got %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info record leaked through warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRequestID(context.Background(), "req-1")
	logging.WithContext(ctx, logger).Info("decoded", logging.String(logging.FieldFormat, "raw"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json line: %v (%q)", err, buf.String())
	}
	if payload["msg"] != "decoded" || payload["level"] != "info" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload[logging.FieldRequestID] != "req-1" || payload[logging.FieldFormat] != "raw" {
		t.Fatalf("missing structured fields in %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Error("catalog unreadable", logging.Spectrum("quartz"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &payload); err != nil {
		t.Fatalf("log file line is not json: %v (%q)", err, data)
	}
	if payload[logging.FieldSpectrum] != "quartz" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "skipping descriptor", "descriptor_unreadable",
		logging.String(logging.FieldErrorHint, "run pxrd check"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if payload[logging.FieldEventType] != "descriptor_unreadable" {
		t.Fatalf("event type not injected: %v", payload)
	}
	if payload[logging.FieldErrorHint] != "run pxrd check" {
		t.Fatalf("caller hint overwritten: %v", payload)
	}
	if payload[logging.FieldImpact] == nil {
		t.Fatalf("impact not injected: %v", payload)
	}
}

func TestRequestIDContext(t *testing.T) {
	if _, ok := logging.RequestIDFromContext(context.Background()); ok {
		t.Fatal("expected no request id on background context")
	}
	ctx := logging.WithRequestID(context.Background(), "  ")
	if _, ok := logging.RequestIDFromContext(ctx); ok {
		t.Fatal("blank request id should be ignored")
	}
	ctx = logging.WithRequestID(context.Background(), "abc")
	if id, ok := logging.RequestIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("unexpected request id %q %v", id, ok)
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should never be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "none")
}
