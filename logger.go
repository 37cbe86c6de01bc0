package vecmem

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/vecmem/memory"
)

// Logger wraps slog.Logger with vecmem-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithEnvironment adds a deployment environment field to the logger.
func (l *Logger) WithEnvironment(env memory.Environment) *Logger {
	return &Logger{
		Logger: l.Logger.With("environment", env.String()),
	}
}

// WithSource adds a detection source field to the logger.
func (l *Logger) WithSource(src memory.Source) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", string(src)),
	}
}

// LogDetection logs a memory detection result.
func (l *Logger) LogDetection(ctx context.Context, info memory.Info) {
	l.DebugContext(ctx, "memory detected",
		"available", memory.FormatBytes(info.Available),
		"source", string(info.Source),
		"container", info.IsContainer,
	)
	for _, w := range info.Warnings {
		l.WarnContext(ctx, "memory detection warning", "warning", w)
	}
}

// LogSizing logs a cache sizing decision.
func (l *Logger) LogSizing(ctx context.Context, s memory.Strategy) {
	l.InfoContext(ctx, "cache budget computed",
		"cache_size", memory.FormatBytes(s.CacheSize),
		"ratio", s.Ratio,
		"environment", s.Environment.String(),
		"reasoning", s.Reasoning,
	)
	for _, w := range s.Warnings {
		l.WarnContext(ctx, "cache sizing warning", "warning", w)
	}
}

// LogPressure logs a memory pressure check. Levels at or above high are
// logged as warnings.
func (l *Logger) LogPressure(ctx context.Context, p memory.Pressure) {
	if p.Level >= memory.PressureHigh {
		l.WarnContext(ctx, "memory pressure",
			"level", p.Level.String(),
			"utilization", p.Utilization,
			"heap_used", memory.FormatBytes(p.HeapUsed),
		)
		return
	}
	l.DebugContext(ctx, "memory pressure",
		"level", p.Level.String(),
		"utilization", p.Utilization,
	)
}
