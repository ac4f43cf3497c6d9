// ABOUTME: User existence lookup across the dashboard tables
// ABOUTME: Backs the OAuth callback's state validation
package db

import (
	"database/sql"
	"fmt"
)

// UserExists reports whether any dashboard data is stored for the user. A
// user is real once they own a task, goal, habit, journal entry, quick note,
// or a previously validated calendar token.
func UserExists(db *sql.DB, userID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM tasks WHERE user_id = ?
		UNION SELECT 1 FROM goals WHERE user_id = ?
		UNION SELECT 1 FROM habits WHERE user_id = ?
		UNION SELECT 1 FROM journal_entries WHERE user_id = ?
		UNION SELECT 1 FROM quick_notes WHERE user_id = ?
		UNION SELECT 1 FROM gcal_tokens WHERE user_id = ?
	)`

	var exists bool
	err := db.QueryRow(query, userID, userID, userID, userID, userID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", userID, err)
	}
	return exists, nil
}
