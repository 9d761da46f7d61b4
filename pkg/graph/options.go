package graph

import (
	"io"
	"log/slog"

	"github.com/seedworks/arbor/pkg/domain"
)

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps overrides the step cap for every invocation run by this
// engine. Values below 1 are ignored.
func WithMaxSteps(limit int) Option {
	return func(e *Engine) {
		if limit >= 1 {
			e.maxSteps = limit
		}
	}
}

// WithLogger sets a structured logger for step-level debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks invoked around each
// node execution and router decision.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
