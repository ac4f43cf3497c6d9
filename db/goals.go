// ABOUTME: Goal database operations
// ABOUTME: Handles CRUD and priority flag management for goals
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/daydash/models"
)

func CreateGoal(db *sql.DB, goal *models.Goal) error {
	goal.ID = uuid.New()
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	if goal.Status == "" {
		goal.Status = models.GoalOnTrack
	}

	_, err := db.Exec(`
		INSERT INTO goals (id, user_id, title, timeframe, status, is_priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, goal.ID.String(), goal.UserID, goal.Title, goal.Timeframe, goal.Status,
		goal.IsPriority, goal.CreatedAt, goal.UpdatedAt)

	return err
}

func GetGoal(db *sql.DB, id uuid.UUID) (*models.Goal, error) {
	goal := &models.Goal{}

	err := db.QueryRow(`
		SELECT id, user_id, title, timeframe, status, is_priority, created_at, updated_at
		FROM goals WHERE id = ?
	`, id.String()).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.Timeframe,
		&goal.Status,
		&goal.IsPriority,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func FindGoals(db *sql.DB, userID string) ([]models.Goal, error) {
	rows, err := db.Query(`
		SELECT id, user_id, title, timeframe, status, is_priority, created_at, updated_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Title,
			&goal.Timeframe,
			&goal.Status,
			&goal.IsPriority,
			&goal.CreatedAt,
			&goal.UpdatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

func UpdateGoal(db *sql.DB, goal *models.Goal) error {
	goal.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE goals SET title = ?, timeframe = ?, status = ?, is_priority = ?, updated_at = ?
		WHERE id = ?
	`, goal.Title, goal.Timeframe, goal.Status, goal.IsPriority, goal.UpdatedAt, goal.ID.String())

	return err
}

func DeleteGoal(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM goals WHERE id = ?`, id.String())
	return err
}
