// ABOUTME: Quick note database operations
// ABOUTME: Handles CRUD with JSON-encoded tags and optional goal links
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/daydash/models"
)

func CreateQuickNote(db *sql.DB, note *models.QuickNote) error {
	note.ID = uuid.New()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.Tags == nil {
		note.Tags = []string{}
	}

	tags, err := json.Marshal(note.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var goalID *string
	if note.GoalID != nil {
		s := note.GoalID.String()
		goalID = &s
	}

	_, err = db.Exec(`
		INSERT INTO quick_notes (id, user_id, title, content, tags, goal_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, note.ID.String(), note.UserID, note.Title, note.Content, string(tags),
		goalID, note.CreatedAt, note.UpdatedAt)

	return err
}

func GetQuickNote(db *sql.DB, id uuid.UUID) (*models.QuickNote, error) {
	row := db.QueryRow(`
		SELECT id, user_id, title, content, tags, goal_id, created_at, updated_at
		FROM quick_notes WHERE id = ?
	`, id.String())

	note, err := scanQuickNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

func FindQuickNotes(db *sql.DB, userID string, limit int) ([]models.QuickNote, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(`
		SELECT id, user_id, title, content, tags, goal_id, created_at, updated_at
		FROM quick_notes
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.QuickNote
	for rows.Next() {
		note, err := scanQuickNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}

	return notes, rows.Err()
}

func UpdateQuickNote(db *sql.DB, note *models.QuickNote) error {
	note.UpdatedAt = time.Now()
	if note.Tags == nil {
		note.Tags = []string{}
	}

	tags, err := json.Marshal(note.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var goalID *string
	if note.GoalID != nil {
		s := note.GoalID.String()
		goalID = &s
	}

	_, err = db.Exec(`
		UPDATE quick_notes SET title = ?, content = ?, tags = ?, goal_id = ?, updated_at = ?
		WHERE id = ?
	`, note.Title, note.Content, string(tags), goalID, note.UpdatedAt, note.ID.String())

	return err
}

func DeleteQuickNote(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM quick_notes WHERE id = ?`, id.String())
	return err
}

func scanQuickNote(row rowScanner) (*models.QuickNote, error) {
	note := &models.QuickNote{}
	var tags string
	var goalID sql.NullString

	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&tags,
		&goalID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &note.Tags); err != nil {
		note.Tags = []string{}
	}

	if goalID.Valid {
		gid, err := uuid.Parse(goalID.String)
		if err == nil {
			note.GoalID = &gid
		}
	}

	return note, nil
}
