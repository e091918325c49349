// Package logging builds the zap loggers used across the module.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config string to a zap level. Unknown values are info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a production JSON logger at level with ISO8601 timestamps.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	return cfg.Build()
}

// Named returns a child logger for one component, or a no-op logger when
// parent is nil.
func Named(parent *zap.Logger, component string) *zap.Logger {
	if parent == nil {
		return zap.NewNop()
	}
	return parent.Named(component)
}
