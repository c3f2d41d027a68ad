package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal logging interface for TriageMesh. Arguments are
// alternating key/value pairs as in slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards all log messages. Useful for tests or when logging is
// disabled.
type NoOpLogger struct{}

// Debug discards the message.
func (NoOpLogger) Debug(string, ...any) {}

// Info discards the message.
func (NoOpLogger) Info(string, ...any) {}

// Warn discards the message.
func (NoOpLogger) Warn(string, ...any) {}

// Error discards the message.
func (NoOpLogger) Error(string, ...any) {}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger { return &SlogAdapter{Logger: logger} }

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger { return NewSlogAdapter(slog.Default()) }

// Config configures construction of a TriageLogger.
type Config struct {
	Level     slog.Level
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns a baseline JSON info-level configuration.
func DefaultConfig() *Config {
	return &Config{Level: slog.LevelInfo, Format: "json", Output: os.Stdout}
}

// TriageLogger wraps slog.Logger adding incident/run scoping and domain
// helpers. With* methods return cheap copies so scoped loggers can be passed
// down without synchronization.
type TriageLogger struct {
	logger     *slog.Logger
	incidentID string
	runID      string
	component  string
}

// NewLogger builds a TriageLogger from cfg (or defaults if nil).
func NewLogger(cfg *Config) *TriageLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &TriageLogger{logger: slog.New(handler)}
}

// WithIncident attaches incident and run identifiers.
func (l *TriageLogger) WithIncident(incidentID, runID string) *TriageLogger {
	nl := *l
	nl.incidentID = incidentID
	nl.runID = runID
	return &nl
}

// WithComponent sets the logical component (orchestrator, workflow, agent...).
func (l *TriageLogger) WithComponent(c string) *TriageLogger {
	nl := *l
	nl.component = c
	return &nl
}

func (l *TriageLogger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+6)
	if l.component != "" {
		out = append(out, "component", l.component)
	}
	if l.incidentID != "" {
		out = append(out, "incident_id", l.incidentID)
	}
	if l.runID != "" {
		out = append(out, "run_id", l.runID)
	}
	return append(out, args...)
}

// Debug logs at debug level.
func (l *TriageLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.attrs(args)...) }

// Info logs at info level.
func (l *TriageLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.attrs(args)...) }

// Warn logs at warn level.
func (l *TriageLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.attrs(args)...) }

// Error logs at error level.
func (l *TriageLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.attrs(args)...) }

// LogAgentRun records one agent node execution.
func (l *TriageLogger) LogAgentRun(agent string, dur time.Duration, tokens int, err error) {
	args := l.attrs([]any{"agent", agent, "duration", dur, "tokens", tokens})
	if err != nil {
		args = append(args, "error", err.Error())
		l.logger.Log(context.Background(), slog.LevelError, "Agent execution failed", args...)
		return
	}
	l.logger.Log(context.Background(), slog.LevelInfo, "Agent execution completed", args...)
}

// LogModelCall records completion-call latency, token usage and success.
func (l *TriageLogger) LogModelCall(model string, tokens int, dur time.Duration, err error) {
	args := l.attrs([]any{"model", model, "tokens", tokens, "duration", dur})
	if err != nil {
		args = append(args, "error", err.Error())
		l.logger.Log(context.Background(), slog.LevelError, "Model call failed", args...)
		return
	}
	l.logger.Log(context.Background(), slog.LevelInfo, "Model call completed", args...)
}

// LogRetrieval records the outcome of one collection search.
func (l *TriageLogger) LogRetrieval(collection string, hits int, dur time.Duration, err error) {
	args := l.attrs([]any{"collection", collection, "hits", hits, "duration", dur})
	if err != nil {
		args = append(args, "error", err.Error())
		l.logger.Log(context.Background(), slog.LevelWarn, "Collection search failed", args...)
		return
	}
	l.logger.Log(context.Background(), slog.LevelDebug, "Collection search completed", args...)
}
