// Package chat implements the interactive prompt/response loop: user
// greeting, habit selection, daily check-ins, and streak display.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/starford/uruz/internal/models"
	"github.com/starford/uruz/internal/motivation"
	"github.com/starford/uruz/internal/store"
	"github.com/starford/uruz/internal/streak"
)

// Session drives one interactive conversation. Input and output are
// injected so tests can run against buffers.
type Session struct {
	in       *bufio.Scanner
	out      io.Writer
	store    store.ProgressStore
	engine   *streak.Engine
	provider motivation.Provider
	logger   *slog.Logger

	// now is the reference clock, overridable in tests.
	now func() time.Time

	user    models.User
	current *models.Habit
}

// NewSession creates a session over the given reader/writer pair.
func NewSession(in io.Reader, out io.Writer, st store.ProgressStore, engine *streak.Engine, provider motivation.Provider, logger *slog.Logger) *Session {
	return &Session{
		in:       bufio.NewScanner(in),
		out:      out,
		store:    st,
		engine:   engine,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Run greets the user and enters the main menu loop. It returns nil when
// the user exits or input ends, and an error only on storage failure.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to Uruz, your habit formation companion!")

	name, ok := s.promptNonEmpty("What's your name? ")
	if !ok {
		return nil
	}
	user, err := s.store.GetOrCreateUser(name)
	if err != nil {
		return fmt.Errorf("chat: load user: %w", err)
	}
	s.user = user
	if user.CreatedAt.After(s.now().Add(-time.Minute)) {
		fmt.Fprintf(s.out, "Nice to meet you, %s! Let's get started.\n", user.Name)
	} else {
		fmt.Fprintf(s.out, "Welcome back, %s!\n", user.Name)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprintln(s.out, "\nWhat would you like to do?")
		fmt.Fprintln(s.out, "  1. Select a habit to work on")
		fmt.Fprintln(s.out, "  2. Log today's progress")
		fmt.Fprintln(s.out, "  3. Show current streaks")
		fmt.Fprintln(s.out, "  4. Remove a habit")
		fmt.Fprintln(s.out, "  5. Exit")

		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = s.selectHabit()
		case "2":
			err = s.checkIn(ctx)
		case "3":
			err = s.showStreaks()
		case "4":
			err = s.removeHabit()
		case "5":
			fmt.Fprintln(s.out, "Goodbye! Keep up the good work!")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please enter 1, 2, 3, 4, or 5.")
		}
		if err != nil {
			return err
		}
	}
}

// selectHabit lists the user's habits and stores the chosen one on the
// session, offering to create the first habit when none exist.
func (s *Session) selectHabit() error {
	for {
		habits, err := s.store.ListHabits(s.user.ID)
		if err != nil {
			return fmt.Errorf("chat: list habits: %w", err)
		}
		if len(habits) == 0 {
			fmt.Fprintln(s.out, "\nYou don't have any habits yet. Let's create one!")
			return s.createHabit()
		}

		fmt.Fprintln(s.out, "\nYour current habits:")
		for i, h := range habits {
			fmt.Fprintf(s.out, "  %d. %s (started on %s)\n", i+1, h.Name, h.StartDate.Format("Jan 02, 2006"))
		}
		fmt.Fprintf(s.out, "  %d. Add a new habit\n", len(habits)+1)

		choice, ok := s.prompt("Select a habit by number: ")
		if !ok {
			return nil
		}
		if n, err := strconv.Atoi(choice); err == nil {
			if n >= 1 && n <= len(habits) {
				h := habits[n-1]
				s.current = &h
				s.logger.Info("habit selected", slog.String("habit", h.Name))
				fmt.Fprintf(s.out, "Working on '%s'.\n", h.Name)
				return nil
			}
			if n == len(habits)+1 {
				return s.createHabit()
			}
		}
		fmt.Fprintln(s.out, "Invalid selection. Please try again.")
	}
}

// createHabit prompts for a new habit name and selects it.
func (s *Session) createHabit() error {
	for {
		name, ok := s.prompt("Enter the name of the habit you want to track: ")
		if !ok {
			return nil
		}
		if name == "" {
			fmt.Fprintln(s.out, "Habit name cannot be empty. Please try again.")
			continue
		}
		h, err := s.store.CreateHabit(s.user.ID, name)
		if err != nil {
			return fmt.Errorf("chat: create habit: %w", err)
		}
		s.current = &h
		fmt.Fprintf(s.out, "Added habit '%s'.\n", h.Name)
		return nil
	}
}

// checkIn records today's yes/no answer for the selected habit and prints
// streak, milestone, and motivation feedback.
func (s *Session) checkIn(ctx context.Context) error {
	if s.current == nil {
		fmt.Fprintln(s.out, "You haven't selected a habit yet. Please choose one first.")
		return nil
	}
	// The habit may have been removed since selection.
	habit, err := s.store.GetHabit(s.current.ID)
	if err != nil {
		s.current = nil
		fmt.Fprintln(s.out, "Selected habit no longer exists. Please choose again.")
		return nil
	}

	fmt.Fprintf(s.out, "\nDid you complete '%s' today? (yes/no)\n", habit.Name)
	var completed bool
	for {
		answer, ok := s.prompt("Enter yes or no: ")
		if !ok {
			return nil
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			completed = true
		case "no", "n":
			completed = false
		default:
			fmt.Fprintln(s.out, "Please type 'yes' or 'no'.")
			continue
		}
		break
	}

	today := s.now()
	if err := s.store.UpsertCheckIn(habit.ID, today, completed); err != nil {
		return fmt.Errorf("chat: record checkin: %w", err)
	}

	result := streak.Result{}
	if completed {
		dates, err := s.store.CompletedDates(habit.ID)
		if err != nil {
			return fmt.Errorf("chat: load history: %w", err)
		}
		result = s.engine.Compute(dates, today)
		fmt.Fprintf(s.out, "Great job! You're on a %d-day streak.\n", result.Current)
		if result.IsMilestone {
			fmt.Fprintf(s.out, "You've hit a %d-day milestone! Amazing discipline!\n", result.Current)
		}
	} else {
		fmt.Fprintln(s.out, "No worries, tomorrow is a new opportunity to get back on track!")
	}

	msg, err := s.provider.Message(ctx, motivation.Request{
		UserName:  s.user.Name,
		Habit:     habit.Name,
		Streak:    result.Current,
		Milestone: result.IsMilestone,
	})
	if err != nil {
		// Only the static provider can sit unwrapped here, and it never fails.
		s.logger.Warn("motivation message failed", slog.String("error", err.Error()))
		return nil
	}
	fmt.Fprintf(s.out, "\nMotivation: %s\n", msg)
	return nil
}

// showStreaks prints the current streak for every habit the user tracks.
func (s *Session) showStreaks() error {
	habits, err := s.store.ListHabits(s.user.ID)
	if err != nil {
		return fmt.Errorf("chat: list habits: %w", err)
	}
	if len(habits) == 0 {
		fmt.Fprintln(s.out, "You haven't added any habits yet.")
		return nil
	}
	fmt.Fprintln(s.out, "\nYour current streaks:")
	today := s.now()
	for _, h := range habits {
		dates, err := s.store.CompletedDates(h.ID)
		if err != nil {
			return fmt.Errorf("chat: load history: %w", err)
		}
		res := s.engine.Compute(dates, today)
		fmt.Fprintf(s.out, "  %s: %d day(s)\n", h.Name, res.Current)
	}
	return nil
}

// removeHabit deletes a habit after explicit numeric selection. Check-ins
// are removed by cascade.
func (s *Session) removeHabit() error {
	habits, err := s.store.ListHabits(s.user.ID)
	if err != nil {
		return fmt.Errorf("chat: list habits: %w", err)
	}
	if len(habits) == 0 {
		fmt.Fprintln(s.out, "You haven't added any habits yet.")
		return nil
	}
	fmt.Fprintln(s.out, "\nWhich habit do you want to remove?")
	for i, h := range habits {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, h.Name)
	}
	choice, ok := s.prompt("Select a habit by number (or press Enter to cancel): ")
	if !ok || choice == "" {
		return nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(habits) {
		fmt.Fprintln(s.out, "Invalid selection.")
		return nil
	}
	h := habits[n-1]
	if err := s.store.DeleteHabit(h.ID); err != nil {
		return fmt.Errorf("chat: delete habit: %w", err)
	}
	if s.current != nil && s.current.ID == h.ID {
		s.current = nil
	}
	fmt.Fprintf(s.out, "Removed habit '%s' and its history.\n", h.Name)
	return nil
}

// prompt writes the prompt and reads one trimmed line. ok is false when
// input is exhausted.
func (s *Session) prompt(p string) (string, bool) {
	fmt.Fprint(s.out, p)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptNonEmpty re-prompts until a non-empty line is entered.
func (s *Session) promptNonEmpty(p string) (string, bool) {
	for {
		v, ok := s.prompt(p)
		if !ok {
			return "", false
		}
		if v != "" {
			return v, true
		}
		fmt.Fprintln(s.out, "Please enter a non-empty value.")
	}
}
