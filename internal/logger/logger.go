package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

const (
	TimeStampKey = "timestamp"
	MessageKey   = "message"
	SeverityKey  = "severity"
	SeverityWarn = "warn"
)

var (
	once sync.Once

	// globalZapLogger is kept for Sync()
	globalZapLogger *zap.Logger

	globalLogrLogger *logr.Logger

	defaultNoopLogger logr.Logger = logr.Discard()
)

// Options selects the level and destination of the global logger
type Options struct {
	// Level is a zapcore level: -1 debug, 0 info, 1 warn, 2 error
	Level int8
	// Output receives JSON log lines. Nil means stderr.
	Output io.Writer
}

// Setup initializes the global Zap and Logr loggers.
// Only the first call has an effect.
func Setup(opts Options) *logr.Logger {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = TimeStampKey
		encoderCfg.MessageKey = MessageKey

		out := opts.Output
		if out == nil {
			out = os.Stderr
		}

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(zapcore.AddSync(out)),
			zap.NewAtomicLevelAt(zapcore.Level(opts.Level)),
		)

		globalZapLogger = zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
		)

		gl := zapr.NewLogger(globalZapLogger)
		globalLogrLogger = &gl
	})
	if globalLogrLogger == nil {
		return &defaultNoopLogger
	}
	return globalLogrLogger
}

// Get initializes the global logger writing to stderr at logLevel
func Get(logLevel int8) *logr.Logger {
	return Setup(Options{Level: logLevel})
}

// OpenFile opens (creating parent directories) an append-only log file
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// WithLogger returns a new context carrying log
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext retrieves the logger from ctx, falling back to the global
// logger and then to a no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	} else if log := globalLogrLogger; log != nil {
		return log
	}
	return &defaultNoopLogger
}

// Sync flushes buffered log entries
func Sync() {
	if globalZapLogger == nil {
		return
	}
	if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
	}
}

// isIgnorableSyncError returns true for common Sync errors on pipes/TTYs
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// Discard returns a logger that drops everything
func Discard() logr.Logger {
	return defaultNoopLogger
}

// Warn logs msg with warn severity. logr has no warn level, so severity rides as a key.
func Warn(log logr.Logger, msg string, keysAndValues ...any) {
	log.Info(msg, append([]any{SeverityKey, SeverityWarn}, keysAndValues...)...)
}

// StatusFunc receives one user-facing message
type StatusFunc func(isError bool, msg string)

// StatusSink returns a logger that forwards warnings and errors to fn.
// Plain info messages (no warn severity) are dropped.
func StatusSink(fn StatusFunc) logr.Logger {
	return logr.New(&statusSink{fn: fn})
}

type statusSink struct {
	fn     StatusFunc
	values []any
}

func (s *statusSink) Init(logr.RuntimeInfo) {}

func (s *statusSink) Enabled(level int) bool { return level == 0 }

func (s *statusSink) Info(_ int, msg string, kv ...any) {
	if isWarn(kv) || isWarn(s.values) {
		s.fn(false, msg)
	}
}

func (s *statusSink) Error(err error, msg string, _ ...any) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	s.fn(true, msg)
}

func (s *statusSink) WithValues(kv ...any) logr.LogSink {
	return &statusSink{fn: s.fn, values: append(append([]any{}, s.values...), kv...)}
}

func (s *statusSink) WithName(string) logr.LogSink { return s }

func isWarn(kv []any) bool {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] == SeverityKey && kv[i+1] == SeverityWarn {
			return true
		}
	}
	return false
}

// Tee returns a logger writing every entry to all loggers
func Tee(loggers ...logr.Logger) logr.Logger {
	sinks := make([]logr.LogSink, 0, len(loggers))
	for _, l := range loggers {
		if s := l.GetSink(); s != nil {
			sinks = append(sinks, s)
		}
	}
	return logr.New(teeSink(sinks))
}

type teeSink []logr.LogSink

func (t teeSink) Init(info logr.RuntimeInfo) {
	for _, s := range t {
		s.Init(info)
	}
}

func (t teeSink) Enabled(level int) bool {
	for _, s := range t {
		if s.Enabled(level) {
			return true
		}
	}
	return false
}

func (t teeSink) Info(level int, msg string, kv ...any) {
	for _, s := range t {
		if s.Enabled(level) {
			s.Info(level, msg, kv...)
		}
	}
}

func (t teeSink) Error(err error, msg string, kv ...any) {
	for _, s := range t {
		s.Error(err, msg, kv...)
	}
}

func (t teeSink) WithValues(kv ...any) logr.LogSink {
	out := make(teeSink, len(t))
	for i, s := range t {
		out[i] = s.WithValues(kv...)
	}
	return out
}

func (t teeSink) WithName(name string) logr.LogSink {
	out := make(teeSink, len(t))
	for i, s := range t {
		out[i] = s.WithName(name)
	}
	return out
}

// Text returns a human-readable logger writing "prefix: message key=value" lines to w.
// Used by the print command when stderr is a terminal.
func Text(w io.Writer) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{})
}
