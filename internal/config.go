package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/uruz/internal/motivation"
	"github.com/starford/uruz/internal/streak"
)

var timeOfDayRe = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Streak     StreakConfig      `yaml:"streak"`
	Motivation MotivationConfig  `yaml:"motivation"`
	Reminder   ReminderConfig    `yaml:"reminder"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Streak.Validate(); err != nil {
		return err
	}
	if err := c.Motivation.Validate(); err != nil {
		return err
	}
	return c.Reminder.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// StreakConfig holds the milestone thresholds.
type StreakConfig struct {
	Milestones []int `yaml:"milestones"`
}

// Validate checks that thresholds are positive and strictly ascending.
func (c *StreakConfig) Validate() error {
	prev := 0
	for _, m := range c.Milestones {
		if m <= prev {
			return fmt.Errorf("streak: milestones must be ascending positive integers, got %v", c.Milestones)
		}
		prev = m
	}
	return nil
}

// MotivationConfig holds motivation provider configuration.
//
// Provider controls how messages are produced:
//   - "auto" (default): OpenAI when APIKey is non-empty, static table otherwise.
//   - "openai": generative messages; APIKey must be non-empty.
//   - "static": canned quote table, fully offline.
type MotivationConfig struct {
	Provider       string `yaml:"provider"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call bound on the generative provider.
func (c *MotivationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the motivation configuration.
func (c *MotivationConfig) Validate() error {
	// Normalise empty provider to "auto" for backward compatibility.
	if c.Provider == "" {
		c.Provider = motivation.ModeAuto
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required,
			validation.In(motivation.ModeAuto, motivation.ModeOpenAI, motivation.ModeStatic)),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Provider == motivation.ModeOpenAI && c.APIKey == "" {
		return fmt.Errorf("motivation: provider is %q but api_key is empty", motivation.ModeOpenAI)
	}
	return nil
}

// ReminderConfig holds the optional daily reminder configuration.
type ReminderConfig struct {
	Enabled   bool   `yaml:"enabled"`
	TimeOfDay string `yaml:"time_of_day"`
}

// Validate validates the reminder configuration.
func (c *ReminderConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeOfDay, validation.Required, validation.Match(timeOfDayRe)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		SQLite: SQLiteConfig{
			Path: "./uruz.db",
		},
		Streak: StreakConfig{
			Milestones: streak.DefaultMilestones,
		},
		Motivation: MotivationConfig{
			Provider:       motivation.ModeAuto,
			TimeoutSeconds: 10,
		},
		Reminder: ReminderConfig{
			Enabled:   false,
			TimeOfDay: "09:00",
		},
	}
}
