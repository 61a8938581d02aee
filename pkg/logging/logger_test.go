package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// decode parses the single JSON entry in buf.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"Info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(LevelEnvVar, tt.value)
			if got := getLogLevelFromEnv(); got != tt.want {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "run-42")
	if got := GetCorrelationID(ctx); got != "run-42" {
		t.Errorf("GetCorrelationID() = %q, want run-42", got)
	}

	generated := GetCorrelationID(WithCorrelationID(context.Background(), ""))
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("expected a generated UUID, got %q", generated)
	}

	if got := GetCorrelationID(context.Background()); got != "" {
		t.Errorf("expected no correlation ID, got %q", got)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)
	ctx := WithCorrelationID(context.Background(), "run-7")

	tests := []struct {
		level string
		log   func()
	}{
		{"DEBUG", func() { logger.Debug(ctx, "msg", "k", "v") }},
		{"INFO", func() { logger.Info(ctx, "msg", "k", "v") }},
		{"WARN", func() { logger.Warn(ctx, "msg", "k", "v") }},
		{"ERROR", func() { logger.Error(ctx, "msg", errors.New("hull breach"), "k", "v") }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.log()
			entry := decode(t, &buf)
			if entry["level"] != tt.level || entry["msg"] != "msg" || entry["k"] != "v" {
				t.Errorf("unexpected entry %v", entry)
			}
			if entry["correlation_id"] != "run-7" {
				t.Errorf("expected correlation_id run-7, got %v", entry["correlation_id"])
			}
		})
	}

	if entry := decode(t, &buf); entry["error"] != "hull breach" {
		t.Errorf("expected the error attribute, got %v", entry["error"])
	}
}

func TestLoggerOmitsMissingCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter(&buf, slog.LevelInfo).Info(context.Background(), "plain")
	if strings.Contains(buf.String(), "correlation_id") {
		t.Errorf("unexpected correlation_id in %s", buf.String())
	}
}

func TestNewLoggerWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelWarn)

	logger.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}

	logger.With("runID", "abc").Warn(context.Background(), "kept")
	if entry := decode(t, &buf); entry["runID"] != "abc" {
		t.Errorf("Expected runID abc, got %v", entry["runID"])
	}
}

func TestForFlier(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter(&buf, slog.LevelInfo).ForFlier(3, "Raider").Info(context.Background(), "turning")

	flier, ok := decode(t, &buf)["flier"].(map[string]any)
	if !ok {
		t.Fatalf("expected a flier group in %s", buf.String())
	}
	if flier["id"] != float64(3) || flier["name"] != "Raider" {
		t.Errorf("unexpected flier group %v", flier)
	}
}

func TestSanitizeAttributes(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter(&buf, slog.LevelInfo).Info(context.Background(), "env",
		"api_token", "abc123",
		"AuthHeader", "Bearer x",
		"tickRate", 60,
	)

	entry := decode(t, &buf)
	if entry["api_token"] != "[REDACTED]" || entry["AuthHeader"] != "[REDACTED]" {
		t.Errorf("expected credentials to be redacted, got %v", entry)
	}
	if entry["tickRate"] != float64(60) {
		t.Errorf("ordinary attributes must pass through, got %v", entry["tickRate"])
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "load") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	base := errors.New("file not found")
	wrapped := WrapError(base, "load configuration %s", "level.yaml")
	if wrapped.Error() != "load configuration level.yaml: file not found" {
		t.Errorf("unexpected message %q", wrapped)
	}
	if !errors.Is(wrapped, base) {
		t.Error("WrapError should preserve the original error")
	}
}

func TestDiscard_WritesNothing(t *testing.T) {
	logger := Discard()
	logger.Error(context.Background(), "nothing", errors.New("boom"))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should not be enabled at error level")
	}
}
