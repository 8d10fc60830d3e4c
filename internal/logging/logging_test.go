package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	levels := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
	}
	for _, tt := range levels {
		t.Run(tt.input, func(t *testing.T) {
			logger := NewWithWriter(io.Discard, tt.input, "text")
			if logger == nil {
				t.Fatalf("NewWithWriter(%q, %q) returned nil", tt.input, "text")
			}
			if !logger.Enabled(context.Background(), tt.want) {
				t.Errorf("level %v should be enabled for %q", tt.want, tt.input)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-4) {
				t.Errorf("level below %v should be disabled for %q", tt.want, tt.input)
			}
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	tests := []struct {
		format string
		prefix string
	}{
		{"json", "{"},
		{"text", "time="},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, "info", tt.format)
			logger.Info("hello", "path", "/tmp/x")
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("output %q does not start with %q", buf.String(), tt.prefix)
			}
		})
	}
}

func TestDiscardDropsOutput(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("discard logger should not enable debug")
	}
}

func TestHoldWriterBuffersUntilRelease(t *testing.T) {
	var out bytes.Buffer
	hw := NewHoldWriter(&out)
	logger := NewWithWriter(hw, "info", "text")

	logger.Info("before")
	hw.Hold()
	logger.Warn("delete failed", "path", "/tmp/x")
	if strings.Contains(out.String(), "delete failed") {
		t.Fatal("held line reached the destination early")
	}

	if err := hw.Release(); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if i, j := strings.Index(got, "before"), strings.Index(got, "delete failed"); i < 0 || j < i {
		t.Errorf("output = %q, want both lines in order", got)
	}

	logger.Info("after")
	if !strings.Contains(out.String(), "after") {
		t.Error("writer still holding after Release")
	}
}
