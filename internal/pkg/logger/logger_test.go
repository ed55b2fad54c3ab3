package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, level string) *Logger {
	return New(Config{
		Level:  level,
		Format: "json",
		Output: buf,
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"json", Config{Level: "info", Format: "json", ServiceName: "tagrender"}},
		{"debug level", Config{Level: "debug", Format: "json"}},
		{"text format", Config{Level: "info", Format: "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if New(tt.config) == nil {
				t.Fatal("expected logger to be non-nil")
			}
		})
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "tagrender",
	})
	log.Info("tag rendered", "kind", "schedule")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if entry["msg"] != "tag rendered" {
		t.Errorf("expected msg='tag rendered', got %v", entry["msg"])
	}
	if entry["kind"] != "schedule" {
		t.Errorf("expected kind='schedule', got %v", entry["kind"])
	}
	if entry["service"] != "tagrender" {
		t.Errorf("expected service='tagrender', got %v", entry["service"])
	}
	ts, _ := entry["time"].(string)
	if !strings.HasSuffix(ts, "Z") {
		t.Errorf("expected UTC timestamp, got %q", ts)
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logFn     func(*Logger)
		shouldLog bool
	}{
		{"info logs info", "info", func(l *Logger) { l.Info("test") }, true},
		{"info drops debug", "info", func(l *Logger) { l.Debug("test") }, false},
		{"debug logs debug", "debug", func(l *Logger) { l.Debug("test") }, true},
		{"error logs error", "error", func(l *Logger) { l.Error("test") }, true},
		{"error drops warn", "error", func(l *Logger) { l.Warn("test") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFn(newBufferLogger(&buf, tt.level))

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldLog {
				t.Errorf("expected shouldLog=%v, got hasOutput=%v", tt.shouldLog, hasOutput)
			}
		})
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, "info")

	log.WithRequestID("req-123").
		WithTagKind("emergency").
		WithComponent("httpapi").
		WithFields(map[string]any{"width": 800}).
		Info("test message")

	output := buf.String()
	for _, want := range []string{"req-123", "emergency", "httpapi", `"width":800`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, "info")

	if log.WithError(nil) != log {
		t.Error("WithError(nil) should return same logger")
	}

	log.WithError(context.DeadlineExceeded).Info("test message")
	if !strings.Contains(buf.String(), "deadline exceeded") {
		t.Errorf("expected output to contain error, got: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, "info")

	ctx := ContextWithRequestID(context.Background(), "req-abc")
	ctx = ContextWithTagKind(ctx, "configure")

	log.FromContext(ctx).Info("test message")

	output := buf.String()
	if !strings.Contains(output, "req-abc") {
		t.Errorf("expected output to contain request_id, got: %s", output)
	}
	if !strings.Contains(output, `"tag_kind":"configure"`) {
		t.Errorf("expected output to contain tag_kind, got: %s", output)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, "info")

	log.LogError(context.Background(), "nothing", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for nil error, got: %s", buf.String())
	}

	log.LogError(context.Background(), "render failed", context.Canceled)
	output := buf.String()
	if !strings.Contains(output, "render failed") || !strings.Contains(output, "logger_test.go") {
		t.Errorf("expected message and source, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if level := parseLevel(tt.input); level.String() != tt.expected {
				t.Errorf("parseLevel(%q) = %s, expected %s", tt.input, level.String(), tt.expected)
			}
		})
	}
}
