// ABOUTME: OAuth token storage for the calendar provider
// ABOUTME: Single-row-per-user upsert, silent-absent reads, idempotent deletes
package db

import (
	"database/sql"
	"log"

	"github.com/harperreed/daydash/models"
)

// TokenStore persists per-user OAuth credentials. Token absence is a valid
// "not connected" state, so reads never return an error to the caller.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Get returns the user's token record, or nil when absent. Storage errors
// are logged and reported as absence.
func (s *TokenStore) Get(userID string) (*models.TokenRecord, error) {
	rec := &models.TokenRecord{}
	var refreshToken, scope sql.NullString

	err := s.db.QueryRow(`
		SELECT user_id, access_token, refresh_token, token_type, expires_at, scope
		FROM gcal_tokens WHERE user_id = ?
	`, userID).Scan(
		&rec.UserID,
		&rec.AccessToken,
		&refreshToken,
		&rec.TokenType,
		&rec.ExpiresAt,
		&scope,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Printf("token lookup failed for user %s: %v", userID, err)
		return nil, nil
	}

	rec.RefreshToken = refreshToken.String
	rec.Scope = scope.String
	return rec, nil
}

// Upsert replaces any existing record for the user in a single statement.
func (s *TokenStore) Upsert(userID string, rec *models.TokenRecord) error {
	rec.UserID = userID

	_, err := s.db.Exec(`
		INSERT INTO gcal_tokens (user_id, access_token, refresh_token, token_type, expires_at, scope)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expires_at = excluded.expires_at,
			scope = excluded.scope
	`, userID, rec.AccessToken, rec.RefreshToken, rec.TokenType, rec.ExpiresAt, rec.Scope)

	return err
}

// Delete removes the user's record. Deleting a non-existent record is not an
// error.
func (s *TokenStore) Delete(userID string) error {
	_, err := s.db.Exec(`DELETE FROM gcal_tokens WHERE user_id = ?`, userID)
	return err
}
