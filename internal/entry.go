// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/uruz/internal/chat"
	"github.com/starford/uruz/internal/mcpserver"
	"github.com/starford/uruz/internal/motivation"
	"github.com/starford/uruz/internal/reminder"
	"github.com/starford/uruz/internal/store"
	"github.com/starford/uruz/internal/streak"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr; stdout belongs to the conversation.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("provider", cfg.Motivation.Provider),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize progress store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	engine := streak.New(cfg.Streak.Milestones)

	if app.mcp {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(db, engine).ServeStdio()
	}

	// Select the provider once at startup. Generative providers carry a
	// static fallback, so check-ins keep working offline.
	provider := motivation.Select(cfg.Motivation.Provider, cfg.Motivation.APIKey,
		cfg.Motivation.Model, cfg.Motivation.Timeout(), logger)

	session := chat.NewSession(os.Stdin, os.Stdout, db, engine, provider, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)

	// Interactive chat loop. Exiting it ends the whole application.
	g.Go(func() error {
		defer cancel()
		return session.Run(gCtx)
	})

	// Optional daily reminder.
	if cfg.Reminder.Enabled {
		tick, err := reminder.New(cfg.Reminder.TimeOfDay, func() {
			fmt.Fprintln(os.Stdout, "\nReminder: don't forget to log today's habits!")
		}, logger)
		if err != nil {
			return fmt.Errorf("init reminder: %w", err)
		}
		g.Go(func() error {
			tick.Run(gCtx)
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Session ended")
	return nil
}
