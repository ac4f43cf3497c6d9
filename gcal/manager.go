// ABOUTME: Sync orchestrator for the Google Calendar connection lifecycle
// ABOUTME: Handles consent flow, callback token exchange, probes, and best-effort pushes
package gcal

import (
	"context"
	"log"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/daydash/models"
)

// Callback failure reasons, rendered as redirect query parameters. Raw
// provider error bodies are never exposed externally.
const (
	ReasonAccessDenied   = "access_denied"
	ReasonMissingParams  = "missing_params"
	ReasonNoAccessToken  = "no_access_token"
	ReasonExchangeFailed = "exchange_failed"
	ReasonCallbackFailed = "callback_failed"
)

// TokenStore is the persistence contract the orchestrator needs. Satisfied
// by db.TokenStore.
type TokenStore interface {
	Get(userID string) (*models.TokenRecord, error)
	Upsert(userID string, rec *models.TokenRecord) error
	Delete(userID string) error
}

// CalendarAPI is the adapter surface the orchestrator and web layer use.
// Satisfied by *Client; faked in tests.
type CalendarAPI interface {
	ListUpcoming(ctx context.Context, maxResults, windowDays int) ([]*calendar.Event, error)
	CreateEvent(ctx context.Context, summary, description string, start, end time.Time, timeZone string) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, eventID string, changes EventChanges) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Manager owns connect/disconnect state transitions and decides when a local
// task save is also pushed to the provider.
type Manager struct {
	cfg    *oauth2.Config
	tokens TokenStore

	// validUser guards the callback's state parameter: tokens are only
	// persisted for a state value naming a real user. Nil denies every
	// callback.
	validUser func(userID string) bool

	// newClient is swapped out in tests.
	newClient func(ctx context.Context, rec *models.TokenRecord) (CalendarAPI, error)
	now       func() time.Time
}

// NewManager wires the orchestrator to a token store and a state validator.
// The validator decides whether a callback state value names a real user; a
// nil validator denies all callbacks rather than accepting them.
func NewManager(cfg *oauth2.Config, tokens TokenStore, validUser func(userID string) bool) *Manager {
	return &Manager{
		cfg:       cfg,
		tokens:    tokens,
		validUser: validUser,
		newClient: func(ctx context.Context, rec *models.TokenRecord) (CalendarAPI, error) {
			return NewClient(ctx, rec)
		},
		now: time.Now,
	}
}

// AuthURL builds the provider consent URL. The state parameter binds the
// flow to the current user's id; offline access and a forced consent screen
// are requested so a refresh token is granted.
func (m *Manager) AuthURL(userID string) string {
	return m.cfg.AuthCodeURL(userID,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// HandleCallback exchanges the authorization code and persists the tokens
// keyed by the state value. It returns an empty string on success, or a
// tagged reason for the caller to render as a redirect query parameter.
func (m *Manager) HandleCallback(ctx context.Context, code, state, errParam string) string {
	if errParam != "" {
		return ReasonAccessDenied
	}
	if code == "" || state == "" {
		return ReasonMissingParams
	}
	if m.validUser == nil || !m.validUser(state) {
		// Unknown state: never persist tokens for it
		return ReasonCallbackFailed
	}

	token, err := m.cfg.Exchange(ctx, code)
	if err != nil {
		log.Printf("calendar token exchange failed: %v", err)
		return ReasonExchangeFailed
	}

	if token.AccessToken == "" {
		return ReasonNoAccessToken
	}

	rec := recordFromToken(state, token, scopeFromToken(token))
	if err := m.tokens.Upsert(state, rec); err != nil {
		log.Printf("failed to store calendar tokens: %v", err)
		return ReasonCallbackFailed
	}

	return ""
}

// Disconnect deletes the stored token record. The token is not revoked with
// the provider; a later connect simply replaces it.
func (m *Manager) Disconnect(userID string) error {
	return m.tokens.Delete(userID)
}

// Connected probes the provider with a cheap listing call. Any failure,
// including a missing token or an expired one that fails to refresh, reads
// as "not connected" and never surfaces as an error.
func (m *Manager) Connected(ctx context.Context, userID string) bool {
	client, _, err := m.ClientFor(ctx, userID)
	if err != nil {
		return false
	}

	if _, err := client.ListUpcoming(ctx, 1, 1); err != nil {
		return false
	}
	return true
}

// ClientFor returns an adapter for the user's stored token, pre-refreshing
// an expired record first. Returns NotConnectedError when no token is
// stored.
func (m *Manager) ClientFor(ctx context.Context, userID string) (CalendarAPI, *models.TokenRecord, error) {
	rec, err := m.tokens.Get(userID)
	if err != nil || rec == nil {
		return nil, nil, &models.NotConnectedError{Provider: "google"}
	}

	if rec.Expired(m.now()) {
		refreshed, err := Refresh(ctx, m.cfg, rec)
		if err != nil {
			return nil, nil, err
		}
		if refreshed.RefreshToken == "" {
			refreshed.RefreshToken = rec.RefreshToken
		}
		if err := m.tokens.Upsert(userID, refreshed); err != nil {
			log.Printf("failed to persist refreshed token for user %s: %v", userID, err)
		}
		rec = refreshed
	}

	client, err := m.newClient(ctx, rec)
	if err != nil {
		return nil, nil, err
	}
	return client, rec, nil
}

// PushTask fires a best-effort event create for a saved task. Failures are
// logged and returned for the caller to log as well, but must never fail or
// roll back the task save itself.
func (m *Manager) PushTask(ctx context.Context, userID string, task *models.Task) error {
	if task.DueDate == nil {
		return nil
	}
	end := task.ScheduledEndTime()
	if end == nil {
		return nil
	}

	client, _, err := m.ClientFor(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := client.CreateEvent(ctx, task.Title, task.Description, *task.DueDate, *end, ""); err != nil {
		log.Printf("calendar push for task %s failed: %v", task.ID, err)
		return err
	}
	return nil
}

func scopeFromToken(token *oauth2.Token) string {
	if scope, ok := token.Extra("scope").(string); ok {
		return scope
	}
	return ""
}
