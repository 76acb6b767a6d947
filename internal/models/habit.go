// Package models defines the domain types for Uruz.
package models

import "time"

// DayFormat is the canonical on-disk representation of a calendar day.
const DayFormat = "2006-01-02"

// User is the person tracking habits. Names are unique.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Habit is a named recurring activity owned by one user.
type Habit struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
}

// CheckIn records whether a habit was completed on a specific calendar day.
// At most one check-in exists per habit per day; a later write for the same
// day replaces the earlier one.
type CheckIn struct {
	HabitID   int64     `json:"habit_id"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
