// Package logging builds the zap logger shared by the CLI and server.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a zap level; the aliases keep call sites free of zapcore.
type Level = zapcore.Level

const (
	LevelError = zapcore.ErrorLevel
	LevelWarn  = zapcore.WarnLevel
	LevelInfo  = zapcore.InfoLevel
	LevelDebug = zapcore.DebugLevel
)

// ParseLevel maps a config string to a Level. Unknown values yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger is a sugared zap logger with a level that can change at runtime.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
}

// New creates a console logger writing to w.
func New(level Level, w io.Writer) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	atom := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), atom)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), level: atom}
}

// NewDefault creates a stderr logger from GLANCE_LOG_LEVEL.
func NewDefault() *Logger {
	return New(ParseLevel(os.Getenv("GLANCE_LOG_LEVEL")), os.Stderr)
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar(), level: zap.NewAtomicLevelAt(LevelError)}
}

// Level reports the current level.
func (l *Logger) Level() Level { return l.level.Level() }

// SetLevel changes the level of l and every logger derived from it.
func (l *Logger) SetLevel(level Level) { l.level.SetLevel(level) }

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level Level) bool { return l.level.Enabled(level) }

// Named returns a child logger sharing l's level.
func (l *Logger) Named(name string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.Named(name), level: l.level}
}
