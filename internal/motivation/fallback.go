package motivation

import (
	"context"
	"log/slog"
	"time"
)

const defaultTimeout = 10 * time.Second

// Fallback wraps a primary provider and answers from a secondary one when
// the primary errors or times out. The secondary is expected to be
// infallible (the static table), so Message never returns an error in
// practice.
type Fallback struct {
	primary   Provider
	secondary Provider
	timeout   time.Duration
	logger    *slog.Logger
}

// WithFallback builds a fallback provider with the default timeout.
func WithFallback(primary, secondary Provider, logger *slog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		timeout:   defaultTimeout,
		logger:    logger,
	}
}

// WithTimeout overrides the per-call bound on the primary provider.
func (f *Fallback) WithTimeout(d time.Duration) *Fallback {
	if d > 0 {
		f.timeout = d
	}
	return f
}

// Message bounds the primary call with the configured timeout and falls
// back to the secondary provider on any error.
func (f *Fallback) Message(ctx context.Context, req Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	msg, err := f.primary.Message(callCtx, req)
	if err == nil {
		return msg, nil
	}
	f.logger.Warn("motivation: primary provider failed, using fallback",
		slog.String("error", err.Error()))
	return f.secondary.Message(ctx, req)
}
