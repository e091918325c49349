package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		if err != nil {
			t.Fatalf("New(%q): %v", level, err)
		}
		if !logger.Core().Enabled(ParseLevel(level)) {
			t.Errorf("expected %s to be enabled", level)
		}
		if level != "debug" && logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("expected debug disabled at %s", level)
		}
	}
}

func TestNamed_NilParent(t *testing.T) {
	logger := Named(nil, "cache")
	if logger == nil {
		t.Fatal("expected a logger")
	}
	logger.Info("discarded")
}
