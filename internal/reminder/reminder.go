// Package reminder fires a daily callback at a configured local time,
// e.g. to nudge the user to check in.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Callback performs the reminder action.
type Callback func()

// Ticker schedules a callback once per day at a fixed HH:MM local time.
type Ticker struct {
	hour   int
	minute int
	cb     Callback
	logger *slog.Logger

	// now is the reference clock, overridable in tests.
	now func() time.Time
}

// New creates a ticker for the given "HH:MM" (24h) time of day.
func New(timeOfDay string, cb Callback, logger *slog.Logger) (*Ticker, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(timeOfDay, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("reminder: parse time %q: %w", timeOfDay, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("reminder: time out of range: %q", timeOfDay)
	}
	return &Ticker{hour: hour, minute: minute, cb: cb, logger: logger, now: time.Now}, nil
}

// Run blocks until ctx is cancelled, invoking the callback each day at the
// configured time.
func (t *Ticker) Run(ctx context.Context) {
	t.logger.Info("reminder: started",
		slog.String("time_of_day", fmt.Sprintf("%02d:%02d", t.hour, t.minute)))

	for {
		wait := time.Until(t.nextRun(t.now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.logger.Info("reminder: stopped")
			return
		case <-timer.C:
			t.cb()
		}
	}
}

// nextRun returns the next occurrence of the configured time strictly
// after now.
func (t *Ticker) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
