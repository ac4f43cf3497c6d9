// ABOUTME: HTTP handlers for journal entries with debounced autosave
// ABOUTME: One entry per day; rapid edits coalesce into a single write
package web

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/models"
	"github.com/harperreed/daydash/schedule"
)

type journalRequest struct {
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		if dayStr := r.URL.Query().Get("day"); dayStr != "" {
			day, err := time.ParseInLocation("2006-01-02", dayStr, time.Local)
			if err != nil {
				writeError(w, &models.ValidationError{Field: "day", Message: "expected YYYY-MM-DD"})
				return
			}
			entry, err := db.GetJournalEntryForDay(s.db, userID, day, time.Local)
			if err != nil {
				writeError(w, &models.PersistenceError{Op: "get journal entry", Err: err})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
			return
		}

		entries, err := db.FindJournalEntries(s.db, userID, 30)
		if err != nil {
			writeError(w, &models.PersistenceError{Op: "list journal entries", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})

	case http.MethodPost:
		var req journalRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Mood != "" {
			if _, ok := models.MoodValues[req.Mood]; !ok {
				writeError(w, &models.ValidationError{Field: "mood", Message: "unknown mood"})
				return
			}
		}

		// The write lands after a quiet period; only the latest edit wins
		s.debouncerFor(userID).Trigger(func() {
			s.saveJournalEntry(userID, req.Content, req.Mood)
		})
		writeJSON(w, http.StatusAccepted, map[string]bool{"queued": true})

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleJournalByID(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/journal/"))
	if err != nil {
		writeError(w, &models.ValidationError{Field: "id", Message: "invalid entry id"})
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req journalRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		entry := &models.JournalEntry{
			ID:      id,
			Content: req.Content,
			Mood:    req.Mood,
		}
		entry.MoodValue = models.MoodValues[req.Mood]
		if err := db.UpdateJournalEntry(s.db, entry); err != nil {
			writeError(w, &models.PersistenceError{Op: "update journal entry", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	case http.MethodDelete:
		if err := db.DeleteJournalEntry(s.db, id); err != nil {
			writeError(w, &models.PersistenceError{Op: "delete journal entry", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) debouncerFor(userID string) *schedule.Debouncer {
	s.autosaveMu.Lock()
	defer s.autosaveMu.Unlock()
	d, ok := s.autosaves[userID]
	if !ok {
		d = schedule.NewDebouncer(s.autosaveDelay)
		s.autosaves[userID] = d
	}
	return d
}

// FlushAutosaves writes out any pending journal edits. Call on shutdown.
func (s *Server) FlushAutosaves() {
	s.autosaveMu.Lock()
	debouncers := make([]*schedule.Debouncer, 0, len(s.autosaves))
	for _, d := range s.autosaves {
		debouncers = append(debouncers, d)
	}
	s.autosaveMu.Unlock()

	for _, d := range debouncers {
		d.Flush()
	}
}

// saveJournalEntry upserts today's entry. Runs off the request goroutine, so
// failures can only be logged.
func (s *Server) saveJournalEntry(userID, content, mood string) {
	entry, err := db.GetJournalEntryForDay(s.db, userID, time.Now(), time.Local)
	if err != nil {
		log.Printf("journal autosave lookup failed for user %s: %v", userID, err)
		return
	}

	if entry == nil {
		entry = &models.JournalEntry{
			UserID:    userID,
			Content:   content,
			Mood:      mood,
			MoodValue: models.MoodValues[mood],
		}
		if err := db.CreateJournalEntry(s.db, entry); err != nil {
			log.Printf("journal autosave create failed for user %s: %v", userID, err)
		}
		return
	}

	entry.Content = content
	entry.Mood = mood
	entry.MoodValue = models.MoodValues[mood]
	if err := db.UpdateJournalEntry(s.db, entry); err != nil {
		log.Printf("journal autosave update failed for user %s: %v", userID, err)
	}
}
