package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// ========================================
// Context Tests
// ========================================

func TestWithSearchID(t *testing.T) {
	ctx := context.Background()
	newCtx := WithSearchID(ctx, "01JABCDEF")

	if ctx.Value(SearchIDKey) != nil {
		t.Error("original context should not be modified")
	}
	if got := GetSearchID(newCtx); got != "01JABCDEF" {
		t.Errorf("GetSearchID() = %q, want %q", got, "01JABCDEF")
	}
}

func TestGetJobID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"with job ID", WithJobID(context.Background(), "run-999"), "run-999"},
		{"without job ID", context.Background(), ""},
		{"wrong type", context.WithValue(context.Background(), JobIDKey, 12345), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetJobID(tt.ctx); got != tt.expected {
				t.Errorf("GetJobID() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestContextKey_Uniqueness(t *testing.T) {
	ctx := context.WithValue(context.Background(), JobIDKey, "typed-value")

	if ctx.Value("log_job_id") != nil {
		t.Error("raw string key should not match ContextKey type")
	}
}

// ========================================
// FromContext Tests
// ========================================

func TestFromContext_NilContext(t *testing.T) {
	logger := slog.Default()
	//nolint:staticcheck // nil context is part of the contract
	if FromContext(nil, logger) != logger {
		t.Error("FromContext with nil context should return original logger")
	}
}

func TestFromContext_NoIDs(t *testing.T) {
	logger := slog.Default()
	if FromContext(context.Background(), logger) != logger {
		t.Error("FromContext without IDs should return original logger")
	}
}

func TestFromContext_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, slog.LevelInfo)

	ctx := WithJobID(WithSearchID(context.Background(), "search-1"), "run-1")
	FromContext(ctx, logger).Info("polling")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["search_id"] != "search-1" {
		t.Errorf("search_id = %v, want search-1", entry["search_id"])
	}
	if entry["job_id"] != "run-1" {
		t.Errorf("job_id = %v, want run-1", entry["job_id"])
	}
}

// ========================================
// Logger Construction Tests
// ========================================

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"trace", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "msg=shown") {
		t.Errorf("output = %q, want text-format warn line", out)
	}
}

func TestSetDefault(t *testing.T) {
	if SetDefault() == nil {
		t.Fatal("SetDefault() should return a logger")
	}
}
