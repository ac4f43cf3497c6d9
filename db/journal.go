// ABOUTME: Journal entry database operations
// ABOUTME: Handles per-day entries with mood scores and day-window lookups
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/daydash/models"
)

func CreateJournalEntry(db *sql.DB, entry *models.JournalEntry) error {
	entry.ID = uuid.New()
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO journal_entries (id, user_id, content, mood, mood_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID.String(), entry.UserID, entry.Content, entry.Mood, entry.MoodValue,
		entry.CreatedAt, entry.UpdatedAt)

	return err
}

// GetJournalEntryForDay returns the user's entry created on the given
// calendar day in loc, or nil when none exists. One entry per day is the
// working assumption; if several exist the newest wins.
func GetJournalEntryForDay(db *sql.DB, userID string, day time.Time, loc *time.Location) (*models.JournalEntry, error) {
	start := time.Date(day.In(loc).Year(), day.In(loc).Month(), day.In(loc).Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	entry := &models.JournalEntry{}
	err := db.QueryRow(`
		SELECT id, user_id, content, mood, mood_value, created_at, updated_at
		FROM journal_entries
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, start, end).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Content,
		&entry.Mood,
		&entry.MoodValue,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func FindJournalEntries(db *sql.DB, userID string, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, user_id, content, mood, mood_value, created_at, updated_at
		FROM journal_entries
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Content,
			&entry.Mood,
			&entry.MoodValue,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func UpdateJournalEntry(db *sql.DB, entry *models.JournalEntry) error {
	entry.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE journal_entries SET content = ?, mood = ?, mood_value = ?, updated_at = ?
		WHERE id = ?
	`, entry.Content, entry.Mood, entry.MoodValue, entry.UpdatedAt, entry.ID.String())

	return err
}

func DeleteJournalEntry(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM journal_entries WHERE id = ?`, id.String())
	return err
}
