package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

func captureLoggerOutput(t *testing.T, section map[string]any, logFunc func(logger contracts.Logger)) []byte {
	t.Helper()

	var buf bytes.Buffer

	container := newMockContainer()
	cfg := &mockConfig{data: map[string]any{"logger": section}}
	_ = container.Instance(reflect.TypeOf((*contracts.Config)(nil)).Elem(), cfg)

	m := &module{opts: []Option{WithWriter(&buf)}}
	logger, err := NewLogger(m.loggerOptions(container)...)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logFunc(logger)

	return buf.Bytes()
}

func splitLines(output string) []string {
	output = strings.TrimSpace(output)
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}

func assertHasKeys(t *testing.T, m map[string]any, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			t.Errorf("expected key %q in log entry", k)
		}
	}
}

func assertValue(t *testing.T, m map[string]any, key string, expected any) {
	t.Helper()
	if val, ok := m[key]; !ok {
		t.Errorf("missing key %q", key)
	} else if val != expected {
		t.Errorf("key %q: got %v, want %v", key, val, expected)
	}
}

func TestLoggerIntegration_JSON_CompleteFields(t *testing.T) {
	t.Parallel()

	section := map[string]any{
		"level":          "warn",
		"format":         "json",
		"include_caller": true,
		"enable_colors":  false,
	}

	output := captureLoggerOutput(t, section, func(logger contracts.Logger) {
		logger.Warn("warn msg", "user", "john", "action", "login")
	})

	var logEntry map[string]any
	if err := json.Unmarshal(output, &logEntry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	assertHasKeys(t, logEntry, "time", "level", "msg", "user", "action")
	assertValue(t, logEntry, "msg", "warn msg")
	assertValue(t, logEntry, "user", "john")
	assertValue(t, logEntry, "action", "login")
	assertValue(t, logEntry, "level", "WARN")

	if source, ok := logEntry["source"].(map[string]any); ok {
		if _, ok := source["file"]; !ok {
			t.Error("expected 'source.file' in JSON output")
		}
	} else {
		t.Error("expected 'source' object in JSON output")
	}
}

func TestLoggerIntegration_JSON_LevelFiltering(t *testing.T) {
	t.Parallel()

	section := map[string]any{
		"level":  "warn",
		"format": "json",
	}

	output := captureLoggerOutput(t, section, func(logger contracts.Logger) {
		logger.Info("should be filtered")
		logger.Warn("warn msg")
	})

	lines := splitLines(string(output))
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line (only warn+), got %d", len(lines))
	}
	if strings.Contains(string(output), "should be filtered") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(string(output), "warn msg") {
		t.Error("warn message should be logged")
	}
}

func TestLoggerIntegration_JSON_CriticalLevel(t *testing.T) {
	t.Parallel()

	section := map[string]any{
		"level":  "debug",
		"format": "json",
	}

	output := captureLoggerOutput(t, section, func(logger contracts.Logger) {
		logger.Critical("server is down")
	})

	var logEntry map[string]any
	if err := json.Unmarshal(output, &logEntry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	assertValue(t, logEntry, "level", "CRITICAL")
	assertValue(t, logEntry, "msg", "server is down")
}

func TestLoggerIntegration_TextFormat(t *testing.T) {
	t.Parallel()

	section := map[string]any{
		"level":  "debug",
		"format": "text",
	}

	output := captureLoggerOutput(t, section, func(logger contracts.Logger) {
		logger.Info("test message", "user", "john", "action", "login")
	})

	outputStr := string(output)
	if !strings.Contains(outputStr, "INFO") {
		t.Error("expected level INFO in output")
	}
	if !strings.Contains(outputStr, "test message") {
		t.Error("expected message in output")
	}
	if !strings.Contains(outputStr, `user="john"`) {
		t.Error("expected user attribute")
	}
	if !strings.Contains(outputStr, `action="login"`) {
		t.Error("expected action attribute")
	}
}

func TestLoggerIntegration_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, _ := NewLogger(
		WithWriter(buf),
		WithLevel(slog.LevelDebug),
		WithText(),
	)

	contextLogger := logger.With("request_id", "12345", "service", "api")
	contextLogger.Info("processing request", "method", "GET", "path", "/users")
	contextLogger.Error("request failed", "status", 500)

	lines := splitLines(buf.String())
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	for i, line := range lines {
		if !strings.Contains(line, `request_id="12345"`) {
			t.Errorf("line %d missing request_id in context: %s", i, line)
		}
		if !strings.Contains(line, `service="api"`) {
			t.Errorf("line %d missing service in context: %s", i, line)
		}
	}
}
