package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

func TestNewLogger_ContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Service:       ServiceInfo{Name: "swb", Version: "v1"},
		Environment:   EnvProd,
		Level:         slog.LevelInfo,
		DefaultModule: Module("api"),
		Output:        &buf,
	})

	ctx := WithRequestID(context.Background(), "req-1")
	logger.InfoContext(ctx, "hello", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"message":    "hello",
		"severity":   "INFO",
		"service":    "swb",
		"version":    "v1",
		"request_id": "req-1",
		"module":     "api",
		"key":        "value",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestNewLogger_ModuleFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Environment:   EnvProd,
		DefaultModule: Module("api"),
		Output:        &buf,
	})

	logger.InfoContext(WithModule(context.Background(), Module("batch")), "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if entry["module"] != "batch" {
		t.Errorf("module = %v, want batch", entry["module"])
	}
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Environment: EnvDev, Level: slog.LevelWarn, Output: &buf})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateAndExtractRequestID(t *testing.T) {
	valid := uuid.NewString()
	if got := ValidateAndExtractRequestID(valid); got != valid {
		t.Errorf("ValidateAndExtractRequestID(%q) = %q", valid, got)
	}

	got := ValidateAndExtractRequestID("not-a-uuid")
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("generated id %q is not a UUID", got)
	}
}
