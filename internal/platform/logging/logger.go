// Package logging wraps zap behind a key/value API shaped like log/slog,
// adding trace correlation for the *Context variants.
package logging

import (
	"context"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Logger is safe to use as a nil pointer; calls then go to Default().
type Logger struct {
	z      *zap.Logger
	synced *atomic.Bool
}

var std atomic.Pointer[Logger]

func init() {
	std.Store(NewNop())
}

// New writes to stdout. Console format colours levels for local runs.
func New(level Level, format Format) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	if format == FormatConsole {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level)
	return FromZap(zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
	))
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z, synced: new(atomic.Bool)}
}

func Default() *Logger {
	return std.Load()
}

func SetDefault(l *Logger) {
	if l == nil {
		l = NewNop()
	}
	std.Store(l)
}

func (l *Logger) core() *zap.Logger {
	if l == nil || l.z == nil {
		return Default().z
	}
	return l.z
}

// Sync flushes once; later calls from derived loggers are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.z == nil || !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.z.Sync()
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{z: l.z.With(fields(args)...), synced: l.synced}
}

// Named scopes a child logger to one component, such as "scheduler".
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{z: l.z.Named(name), synced: l.synced}
}

func (l *Logger) Debug(msg string, args ...any) { l.write(context.Background(), LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(context.Background(), LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(context.Background(), LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(context.Background(), LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

func (l *Logger) write(ctx context.Context, level Level, msg string, args []any) {
	ce := l.core().Check(level, msg)
	if ce == nil {
		return
	}
	out := fields(args)
	if ctx != nil {
		out = appendTrace(out, ctx)
	}
	ce.Write(out...)
}
