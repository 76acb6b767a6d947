package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/uruz/internal/apperr"
	"github.com/starford/uruz/internal/models"
)

// ProgressStore defines the interface for progress persistence.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type ProgressStore interface {
	GetOrCreateUser(name string) (models.User, error)
	CreateHabit(userID int64, name string) (models.Habit, error)
	ListHabits(userID int64) ([]models.Habit, error)
	GetHabit(habitID int64) (*models.Habit, error)
	DeleteHabit(habitID int64) error
	UpsertCheckIn(habitID int64, day time.Time, completed bool) error
	History(habitID int64) ([]models.CheckIn, error)
	CompletedDates(habitID int64) ([]time.Time, error)
	Close() error
}

// Verify *DB satisfies ProgressStore at compile time.
var _ ProgressStore = (*DB)(nil)

// GetOrCreateUser returns the user with the given name, creating it on
// first use.
func (db *DB) GetOrCreateUser(name string) (models.User, error) {
	var u models.User
	err := db.conn.QueryRow(
		`SELECT id, name, created_at FROM users WHERE name = ?`, name,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("store: get user: %w", err)
	}

	res, err := db.conn.Exec(`INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		return models.User{}, fmt.Errorf("store: create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("store: user id: %w", err)
	}
	return models.User{ID: id, Name: name, CreatedAt: time.Now()}, nil
}

// CreateHabit adds a new habit for the user with today recorded as the
// start date. Habit names are unique per user.
func (db *DB) CreateHabit(userID int64, name string) (models.Habit, error) {
	start := models.Day(time.Now())
	res, err := db.conn.Exec(
		`INSERT INTO habits (user_id, name, start_date) VALUES (?, ?, ?)`,
		userID, name, start.Format(models.DayFormat),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.Habit{}, apperr.ErrAlreadyExists
		}
		return models.Habit{}, fmt.Errorf("store: create habit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Habit{}, fmt.Errorf("store: habit id: %w", err)
	}
	return models.Habit{ID: id, UserID: userID, Name: name, StartDate: start}, nil
}

// ListHabits returns every habit owned by the user, oldest first.
func (db *DB) ListHabits(userID int64) ([]models.Habit, error) {
	rows, err := db.conn.Query(
		`SELECT id, user_id, name, start_date FROM habits WHERE user_id = ? ORDER BY id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list habits: %w", err)
	}
	defer rows.Close()

	var out []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetHabit returns a habit by id, or apperr.ErrNotFound.
func (db *DB) GetHabit(habitID int64) (*models.Habit, error) {
	row := db.conn.QueryRow(
		`SELECT id, user_id, name, start_date FROM habits WHERE id = ?`, habitID,
	)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHabit removes a habit and, via cascade, its check-ins.
func (db *DB) DeleteHabit(habitID int64) error {
	res, err := db.conn.Exec(`DELETE FROM habits WHERE id = ?`, habitID)
	if err != nil {
		return fmt.Errorf("store: delete habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpsertCheckIn records a check-in for a habit on the given day. A later
// write for the same habit+day overwrites the earlier one, so re-logging
// is idempotent.
func (db *DB) UpsertCheckIn(habitID int64, day time.Time, completed bool) error {
	_, err := db.conn.Exec(`
		INSERT INTO checkins (habit_id, checkin_date, completed)
		VALUES (?, ?, ?)
		ON CONFLICT(habit_id, checkin_date) DO UPDATE SET
			completed = excluded.completed
	`, habitID, models.Day(day).Format(models.DayFormat), boolToInt(completed))
	if err != nil {
		return fmt.Errorf("store: upsert checkin: %w", err)
	}
	return nil
}

// History returns every check-in for a habit ordered by date ascending.
func (db *DB) History(habitID int64) ([]models.CheckIn, error) {
	rows, err := db.conn.Query(`
		SELECT checkin_date, completed FROM checkins
		WHERE habit_id = ? ORDER BY checkin_date
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}
	defer rows.Close()

	var out []models.CheckIn
	for rows.Next() {
		var raw string
		var completed int
		if err := rows.Scan(&raw, &completed); err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation(models.DayFormat, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("store: parse checkin date %q: %w", raw, err)
		}
		out = append(out, models.CheckIn{HabitID: habitID, Date: day, Completed: completed != 0})
	}
	return out, rows.Err()
}

// CompletedDates returns the days on which the habit was marked completed,
// most recent first. This is the streak engine's input.
func (db *DB) CompletedDates(habitID int64) ([]time.Time, error) {
	rows, err := db.conn.Query(`
		SELECT checkin_date FROM checkins
		WHERE habit_id = ? AND completed = 1 ORDER BY checkin_date DESC
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("store: completed dates: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation(models.DayFormat, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("store: parse checkin date %q: %w", raw, err)
		}
		out = append(out, day)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(r rowScanner) (models.Habit, error) {
	var h models.Habit
	var start string
	if err := r.Scan(&h.ID, &h.UserID, &h.Name, &start); err != nil {
		return models.Habit{}, err
	}
	day, err := time.ParseInLocation(models.DayFormat, start, time.UTC)
	if err != nil {
		return models.Habit{}, fmt.Errorf("store: parse start date %q: %w", start, err)
	}
	h.StartDate = day
	return h, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
