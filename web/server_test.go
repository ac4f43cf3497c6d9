// ABOUTME: Tests for server routing, user resolution, and calendar routes
// ABOUTME: Runs handlers against an in-memory database via httptest
package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/gcal"
	"github.com/harperreed/daydash/models"
)

const testUser = "user-1"

func newTestServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	// A second pool connection would see a separate empty in-memory db
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))

	cfg := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.google.com/o/oauth2/auth"},
	}
	// Same state validation the serve command wires up
	mgr := gcal.NewManager(cfg, db.NewTokenStore(database), func(userID string) bool {
		exists, err := db.UserExists(database, userID)
		if err != nil {
			return false
		}
		return exists
	})
	return NewServer(database, mgr, ""), database
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-User-ID", testUser)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConnectReturnsAuthURL(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/gcal/connect", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decodeResponse(t, w, &resp)
	assert.Contains(t, resp["authUrl"], "state="+testUser)
	assert.Contains(t, resp["authUrl"], "access_type=offline")
	assert.Contains(t, resp["authUrl"], "prompt=consent")
}

func TestCallbackRedirectsWithReason(t *testing.T) {
	s, _ := newTestServer(t)

	// No user header: the provider redirect identifies the user via state
	req := httptest.NewRequest(http.MethodGet, "/api/gcal/callback?error=access_denied&state="+testUser, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard?error=access_denied", w.Header().Get("Location"))
}

func TestCallbackMissingParamsRedirect(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/gcal/callback", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard?error=missing_params", w.Header().Get("Location"))
}

func TestCallbackForgedStateNeverPersists(t *testing.T) {
	s, database := newTestServer(t)

	// No dashboard data exists for this id, so the state must be rejected
	// before any token exchange happens
	req := httptest.NewRequest(http.MethodGet, "/api/gcal/callback?code=c&state=spoofed-victim-id", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard?error=callback_failed", w.Header().Get("Location"))

	rec, err := db.NewTokenStore(database).Get("spoofed-victim-id")
	require.NoError(t, err)
	assert.Nil(t, rec, "no token may be stored for a forged state")
}

func TestCallbackKnownStatePersistsToken(t *testing.T) {
	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "granted", "token_type": "Bearer"}`))
	}))
	t.Cleanup(provider.Close)

	cfg := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     oauth2.Endpoint{AuthURL: provider.URL, TokenURL: provider.URL},
	}
	mgr := gcal.NewManager(cfg, db.NewTokenStore(database), func(userID string) bool {
		exists, err := db.UserExists(database, userID)
		if err != nil {
			return false
		}
		return exists
	})
	s := NewServer(database, mgr, "")

	require.NoError(t, db.CreateTask(database, &models.Task{UserID: testUser, Title: "seed"}))

	req := httptest.NewRequest(http.MethodGet, "/api/gcal/callback?code=c&state="+testUser, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard?connected=true", w.Header().Get("Location"))

	rec, err := db.NewTokenStore(database).Get(testUser)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "granted", rec.AccessToken)
}

func TestEventsRequiresConnection(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/gcal/events", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	decodeResponse(t, w, &resp)
	assert.Contains(t, resp["error"], "not connected")
}

func TestSyncRejectsUnknownAction(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/gcal/sync", map[string]interface{}{
		"action": "archive",
	})
	// Unauthenticated calendar is rejected before the action is examined
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDisconnectWithoutTokenSucceeds(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/gcal/disconnect", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	decodeResponse(t, w, &resp)
	assert.True(t, resp["success"])
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodDelete, "/api/gcal/connect", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
