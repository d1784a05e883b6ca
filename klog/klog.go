// Package klog is the kernel's structured logger: a thin Logger
// interface over log/slog, colorized via lmittmann/tint when writing to
// a terminal (detected with mattn/go-isatty). Grounded on the teacher's
// slogger package (slogger.go, slogger_slog.go), generalized from
// "agent/workflow logging" to "session/entity/plugin logging," with the
// same context-carried logger idiom so a Session can thread one logger
// through to every action and hook it runs.
package klog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// DefaultLevel is used by Ctx when no logger has been attached to a
// context.
var DefaultLevel = LevelInfo

// Level is the minimum severity a Logger will emit.
type Level slog.Level

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// Logger is the kernel's structured-logging contract, an interface
// rather than slog directly so tests can swap in a silent
// implementation. Session, Tick and the bundled plugins do not log
// through it; worldconfig uses this package only for its Level type.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	With(keysAndValues ...any) Logger
}

// tintLogger implements Logger on top of slog, with a tint-colorized
// terminal handler.
type tintLogger struct {
	logger *slog.Logger
}

// New returns a Logger that writes to os.Stdout, colorized when stdout
// is a terminal.
func New(level Level) Logger {
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
		TimeFormat: time.Kitchen,
		Level:      slog.Level(level),
	})
	return &tintLogger{logger: slog.New(handler)}
}

func (l *tintLogger) Debug(msg string, kv ...any) { l.logger.Debug(msg, withCaller(kv...)...) }
func (l *tintLogger) Info(msg string, kv ...any)  { l.logger.Info(msg, withCaller(kv...)...) }
func (l *tintLogger) Warn(msg string, kv ...any)  { l.logger.Warn(msg, withCaller(kv...)...) }
func (l *tintLogger) Error(msg string, kv ...any) { l.logger.Error(msg, withCaller(kv...)...) }

func (l *tintLogger) With(kv ...any) Logger {
	return &tintLogger{logger: l.logger.With(kv...)}
}

func withCaller(kv ...any) []any {
	const skip = 2
	if _, file, line, ok := runtime.Caller(skip); ok {
		return append([]any{"caller", formatCaller(file, line)}, kv...)
	}
	return kv
}

func formatCaller(file string, line int) string {
	parts := strings.Split(file, "/")
	switch len(parts) {
	case 0:
		return "unknown"
	case 1:
		return fmt.Sprintf("%s:%d", parts[0], line)
	default:
		return fmt.Sprintf("%s/%s:%d", parts[len(parts)-2], parts[len(parts)-1], line)
	}
}

// NullLogger discards everything; used by tests and DevNullNotifier-style
// fixtures (original_source's DevNullNotifier has a logging analogue
// here).
type NullLogger struct{}

func (NullLogger) Debug(string, ...any) {}
func (NullLogger) Info(string, ...any)  {}
func (NullLogger) Warn(string, ...any)  {}
func (NullLogger) Error(string, ...any) {}
func (NullLogger) With(...any) Logger   { return NullLogger{} }

type contextKey string

const loggerKey contextKey = "hollowmere.logger"

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger attached to ctx, or a default New(DefaultLevel)
// logger if none was attached.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return New(DefaultLevel)
	}
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return New(DefaultLevel)
}

// LevelFromString parses a case-insensitive level name, defaulting to
// DefaultLevel on anything unrecognized.
func LevelFromString(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return DefaultLevel
	}
}
