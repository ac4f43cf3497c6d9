// ABOUTME: JSON API server for the dashboard
// ABOUTME: Wires routes, user resolution, and error-to-status mapping
package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/harperreed/daydash/gcal"
	"github.com/harperreed/daydash/models"
	"github.com/harperreed/daydash/schedule"
)

type Server struct {
	db          *sql.DB
	mgr         *gcal.Manager
	mux         *http.ServeMux
	feedbackURL string

	autosaveMu    sync.Mutex
	autosaves     map[string]*schedule.Debouncer
	autosaveDelay time.Duration

	plannersMu sync.Mutex
	planners   map[string]*schedule.Planner

	// userFromRequest resolves the acting user. The default reads the
	// X-User-ID header.
	userFromRequest func(r *http.Request) string
}

func NewServer(database *sql.DB, mgr *gcal.Manager, feedbackURL string) *Server {
	s := &Server{
		db:            database,
		mgr:           mgr,
		feedbackURL:   feedbackURL,
		autosaves:     make(map[string]*schedule.Debouncer),
		autosaveDelay: 2 * time.Second,
		planners:      make(map[string]*schedule.Planner),
		userFromRequest: func(r *http.Request) string {
			return r.Header.Get("X-User-ID")
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/gcal/connect", s.withUser(s.handleConnect))
	mux.HandleFunc("/api/gcal/callback", s.handleCallback)
	mux.HandleFunc("/api/gcal/disconnect", s.withUser(s.handleDisconnect))
	mux.HandleFunc("/api/gcal/events", s.withUser(s.handleEvents))
	mux.HandleFunc("/api/gcal/sync", s.withUser(s.handleSync))

	mux.HandleFunc("/api/day", s.withUser(s.handleDay))
	mux.HandleFunc("/api/day/move", s.withUser(s.handleDayMove))
	mux.HandleFunc("/api/day/resize", s.withUser(s.handleDayResize))
	mux.HandleFunc("/api/day/block", s.withUser(s.handleDayBlock))
	mux.HandleFunc("/api/day/meeting-watch", s.withUser(s.handleMeetingWatch))

	mux.HandleFunc("/api/tasks", s.withUser(s.handleTasks))
	mux.HandleFunc("/api/tasks/", s.withUser(s.handleTaskByID))
	mux.HandleFunc("/api/goals", s.withUser(s.handleGoals))
	mux.HandleFunc("/api/goals/", s.withUser(s.handleGoalByID))
	mux.HandleFunc("/api/habits", s.withUser(s.handleHabits))
	mux.HandleFunc("/api/habits/", s.withUser(s.handleHabitByID))
	mux.HandleFunc("/api/habit-logs", s.withUser(s.handleHabitLogs))
	mux.HandleFunc("/api/journal", s.withUser(s.handleJournal))
	mux.HandleFunc("/api/journal/", s.withUser(s.handleJournalByID))
	mux.HandleFunc("/api/quick-notes", s.withUser(s.handleQuickNotes))
	mux.HandleFunc("/api/quick-notes/", s.withUser(s.handleQuickNoteByID))
	mux.HandleFunc("/api/feedback", s.withUser(s.handleFeedback))
	s.mux = mux

	return s
}

// Handler exposes the route table for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting dashboard API at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// withUser rejects requests without a resolvable user before the handler
// runs. The callback route stays outside this guard: the provider redirect
// carries no user header, the state parameter identifies the user instead.
func (s *Server) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := s.userFromRequest(r)
		if userID == "" {
			writeError(w, &models.AuthError{Reason: "missing user"})
			return
		}
		next(w, r, userID)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var ve *models.ValidationError
	var nce *models.NotConnectedError
	var ae *models.AuthError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &nce):
		status = http.StatusBadRequest
	case errors.As(err, &ae):
		status = http.StatusUnauthorized
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
