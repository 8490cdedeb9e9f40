// Package hooks runs best-effort side effects after a primary write has
// committed. Hooks never roll the primary write back and never surface
// their failure to the caller; each one gets its own error boundary.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
)

// Hook is one individually-fallible post-commit callback.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Named is a small constructor to keep call sites readable.
func Named(name string, fn func(ctx context.Context) error) Hook {
	return Hook{Name: name, Fn: fn}
}

// Runner executes hooks with catch-and-log semantics.
type Runner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes each hook in order. Errors and panics are logged and
// swallowed; one hook's failure does not stop the rest.
func (r *Runner) Run(ctx context.Context, hooks ...Hook) {
	for _, h := range hooks {
		r.runOne(ctx, h)
	}
}

func (r *Runner) runOne(ctx context.Context, h Hook) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("post-commit hook panicked",
				slog.String("hook", h.Name),
				slog.String("panic", fmt.Sprint(rec)))
		}
	}()

	if err := h.Fn(ctx); err != nil {
		r.logger.Error("post-commit hook failed",
			slog.String("hook", h.Name),
			slog.String("error", err.Error()))
	}
}
