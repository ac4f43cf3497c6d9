// ABOUTME: OAuth configuration and token refresh for Google Calendar
// ABOUTME: Reads client credentials from environment, never logs them in plaintext
package gcal

import (
	"context"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/harperreed/daydash/models"
)

// NewOAuthConfig creates the OAuth2 config for the calendar provider.
// Client id, secret, and redirect URI come from the environment; they must
// never appear in log output (only Configured's boolean may be logged).
func NewOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar",
		},
		Endpoint: google.Endpoint,
	}
}

// Configured reports whether all provider credentials are present.
func Configured(cfg *oauth2.Config) bool {
	return cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RedirectURL != ""
}

// Refresh exchanges the stored refresh token for a new access token. Fails
// when no refresh token was stored or the provider rejects it.
func Refresh(ctx context.Context, cfg *oauth2.Config, rec *models.TokenRecord) (*models.TokenRecord, error) {
	if rec == nil || rec.RefreshToken == "" {
		return nil, &ProviderError{Op: "refresh", Err: errNoRefreshToken}
	}

	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: rec.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, providerErr("refresh", err)
	}

	return recordFromToken(rec.UserID, token, rec.Scope), nil
}

func recordFromToken(userID string, token *oauth2.Token, scope string) *models.TokenRecord {
	rec := &models.TokenRecord{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        scope,
	}
	if rec.TokenType == "" {
		rec.TokenType = "Bearer"
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		rec.ExpiresAt = &expiry
	}
	return rec
}

func tokenFromRecord(rec *models.TokenRecord) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		TokenType:    rec.TokenType,
	}
	if rec.ExpiresAt != nil {
		token.Expiry = *rec.ExpiresAt
	} else {
		// StaticTokenSource treats a zero expiry as non-expiring, which is
		// what we want: refresh is the caller's job, not the transport's.
		token.Expiry = time.Time{}
	}
	return token
}
