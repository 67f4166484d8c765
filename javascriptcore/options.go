package javascriptcore

import (
	"fmt"
	"log/slog"
)

// ContextOption configures a Context.
type ContextOption func(*contextConfig) error

type contextConfig struct {
	name       string
	logHandler slog.Handler
	logger     *slog.Logger
}

// WithName sets the context name shown by debuggers and in logs.
func WithName(name string) ContextOption {
	return func(cfg *contextConfig) error {
		cfg.name = name
		return nil
	}
}

// WithLogHandler sets the slog handler used by the context.
func WithLogHandler(handler slog.Handler) ContextOption {
	return func(cfg *contextConfig) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		cfg.logHandler = handler
		cfg.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the context.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(cfg *contextConfig) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = logger
		cfg.logHandler = nil
		return nil
	}
}

// EvalOption configures a single Evaluate or CheckSyntax call.
type EvalOption func(*evalConfig)

type evalConfig struct {
	sourceURL string
	startLine int
	this      *Object
}

func newEvalConfig(opts []EvalOption) *evalConfig {
	cfg := &evalConfig{startLine: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSourceURL names the script in stack traces and exceptions.
func WithSourceURL(url string) EvalOption {
	return func(cfg *evalConfig) {
		cfg.sourceURL = url
	}
}

// WithStartLine sets the line number of the first line of the script.
func WithStartLine(line int) EvalOption {
	return func(cfg *evalConfig) {
		cfg.startLine = line
	}
}

// WithThis sets the this object for the script. Defaults to the global object.
func WithThis(this *Object) EvalOption {
	return func(cfg *evalConfig) {
		cfg.this = this
	}
}
