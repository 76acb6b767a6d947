// Package motivation produces encouragement messages keyed to a habit's
// current streak. Two providers exist: a generative one backed by the
// OpenAI chat-completions API and a deterministic static quote table. The
// provider is selected once at startup from configuration, never per call.
package motivation

import (
	"context"
	"log/slog"
	"time"
)

// Request carries the streak engine's output plus display context. It is
// the sole input contract a provider needs.
type Request struct {
	UserName  string
	Habit     string
	Streak    int
	Milestone bool
}

// Provider produces a motivational message for a check-in.
type Provider interface {
	Message(ctx context.Context, req Request) (string, error)
}

// Provider modes.
const (
	ModeAuto   = "auto"
	ModeOpenAI = "openai"
	ModeStatic = "static"
)

// Select builds the provider for the given mode and credential. ModeAuto
// picks OpenAI when an API key is present and the static table otherwise.
// A generative provider is always wrapped with a static fallback so that
// provider failure never surfaces as a hard failure.
func Select(mode, apiKey, model string, timeout time.Duration, logger *slog.Logger) Provider {
	static := NewStatic()

	generative := mode == ModeOpenAI || (mode == ModeAuto && apiKey != "")
	if !generative {
		logger.Info("motivation: using static quote table")
		return static
	}

	logger.Info("motivation: using OpenAI provider", slog.String("model", model))
	return WithFallback(NewOpenAI(apiKey, model), static, logger).WithTimeout(timeout)
}
