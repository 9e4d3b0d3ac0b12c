package logging

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is only swapped by Initialize and SetLogger, both called before any
// concurrent use.
var logger = zap.NewNop()

// LogLevelEnvVar controls logging verbosity when no level is configured.
// When unset or empty, logging is silent.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "FORMPREVIEW_LOG_LEVEL"

// ParseLevel maps a level name onto a zap level. Unknown names report false.
func ParseLevel(level string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Initialize creates the package logger. An empty level falls back to
// FORMPREVIEW_LOG_LEVEL; when that is empty too the logger is a no-op.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, _ := ParseLevel(level)
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("logging: build logger: %w", err)
	}
	logger = built
	return nil
}

// SetLogger replaces the package logger, mainly for tests.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the package logger, a no-op one when uninitialised.
func GetLogger() *zap.Logger {
	return logger
}

// Named returns a child logger for a component.
func Named(name string) *zap.Logger {
	return GetLogger().Named(name)
}

func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogSessionEvent records a live session lifecycle event.
func LogSessionEvent(sessionID, remoteAddr, event string, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("session", sessionID),
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	}
	Info("Session event", append(base, fields...)...)
}

// LogFrame records a websocket frame at debug level. Payloads are truncated.
func LogFrame(sessionID, direction, kind string, data []byte) {
	if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
		return
	}
	Debug("WebSocket frame",
		zap.String("session", sessionID),
		zap.String("direction", direction),
		zap.String("type", kind),
		zap.Int("length", len(data)),
		zap.String("content", truncate(data, 256)),
	)
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	for limit > 0 && !utf8.RuneStart(data[limit]) {
		limit--
	}
	return string(data[:limit]) + "..."
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = logger.Sync()
}
