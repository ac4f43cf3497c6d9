// ABOUTME: Habit and habit log database operations
// ABOUTME: Handles habit CRUD, completion logging, and streak persistence
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/daydash/models"
)

func CreateHabit(db *sql.DB, habit *models.Habit) error {
	habit.ID = uuid.New()
	now := time.Now()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO habits (id, user_id, title, current_streak, longest_streak, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, habit.ID.String(), habit.UserID, habit.Title, habit.CurrentStreak,
		habit.LongestStreak, habit.IsActive, habit.CreatedAt, habit.UpdatedAt)

	return err
}

func GetHabit(db *sql.DB, id uuid.UUID) (*models.Habit, error) {
	habit := &models.Habit{}

	err := db.QueryRow(`
		SELECT id, user_id, title, current_streak, longest_streak, is_active, created_at, updated_at
		FROM habits WHERE id = ?
	`, id.String()).Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Title,
		&habit.CurrentStreak,
		&habit.LongestStreak,
		&habit.IsActive,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return habit, nil
}

func FindHabits(db *sql.DB, userID string) ([]models.Habit, error) {
	rows, err := db.Query(`
		SELECT id, user_id, title, current_streak, longest_streak, is_active, created_at, updated_at
		FROM habits
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var habit models.Habit
		if err := rows.Scan(
			&habit.ID,
			&habit.UserID,
			&habit.Title,
			&habit.CurrentStreak,
			&habit.LongestStreak,
			&habit.IsActive,
			&habit.CreatedAt,
			&habit.UpdatedAt,
		); err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}

	return habits, rows.Err()
}

func UpdateHabit(db *sql.DB, habit *models.Habit) error {
	habit.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE habits SET title = ?, current_streak = ?, longest_streak = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, habit.Title, habit.CurrentStreak, habit.LongestStreak, habit.IsActive,
		habit.UpdatedAt, habit.ID.String())

	return err
}

func DeleteHabit(db *sql.DB, id uuid.UUID) error {
	// Soft delete keeps log history intact
	_, err := db.Exec(`UPDATE habits SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now(), id.String())
	return err
}

func CreateHabitLog(db *sql.DB, logEntry *models.HabitLog) error {
	logEntry.ID = uuid.New()

	_, err := db.Exec(`
		INSERT INTO habit_logs (id, habit_id, completed_at)
		VALUES (?, ?, ?)
	`, logEntry.ID.String(), logEntry.HabitID.String(), logEntry.CompletedAt)

	return err
}

// GetHabitLogs returns the full log history for a habit, newest first. Streak
// recomputation reads this whole history on every toggle.
func GetHabitLogs(db *sql.DB, habitID uuid.UUID) ([]models.HabitLog, error) {
	rows, err := db.Query(`
		SELECT id, habit_id, completed_at
		FROM habit_logs
		WHERE habit_id = ?
		ORDER BY completed_at DESC
	`, habitID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		var entry models.HabitLog
		if err := rows.Scan(&entry.ID, &entry.HabitID, &entry.CompletedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

// DeleteHabitLogForDay removes any completion logged on the given calendar
// day in loc. Used when a habit is untoggled.
func DeleteHabitLogForDay(db *sql.DB, habitID uuid.UUID, day time.Time, loc *time.Location) error {
	start := time.Date(day.In(loc).Year(), day.In(loc).Month(), day.In(loc).Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	_, err := db.Exec(`
		DELETE FROM habit_logs
		WHERE habit_id = ? AND completed_at >= ? AND completed_at < ?
	`, habitID.String(), start, end)

	return err
}
