// ABOUTME: HTTP handlers for quick note CRUD
// ABOUTME: Notes carry free-form tags and an optional goal link
package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/models"
)

type quickNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	GoalID  string   `json:"goal_id"`
}

func (s *Server) handleQuickNotes(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		notes, err := db.FindQuickNotes(s.db, userID, 100)
		if err != nil {
			writeError(w, &models.PersistenceError{Op: "list quick notes", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})

	case http.MethodPost:
		var req quickNoteRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Title == "" && req.Content == "" {
			writeError(w, &models.ValidationError{Field: "content", Message: "title or content required"})
			return
		}

		note := &models.QuickNote{
			UserID:  userID,
			Title:   req.Title,
			Content: req.Content,
			Tags:    req.Tags,
		}
		if req.GoalID != "" {
			goalID, err := uuid.Parse(req.GoalID)
			if err != nil {
				writeError(w, &models.ValidationError{Field: "goal_id", Message: "invalid goal id"})
				return
			}
			note.GoalID = &goalID
		}
		if err := db.CreateQuickNote(s.db, note); err != nil {
			writeError(w, &models.PersistenceError{Op: "create quick note", Err: err})
			return
		}
		writeJSON(w, http.StatusCreated, note)

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleQuickNoteByID(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/quick-notes/"))
	if err != nil {
		writeError(w, &models.ValidationError{Field: "id", Message: "invalid note id"})
		return
	}

	note, err := db.GetQuickNote(s.db, id)
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "get quick note", Err: err})
		return
	}
	if note == nil || note.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "note not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, note)

	case http.MethodPut:
		var req quickNoteRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		note.Title = req.Title
		note.Content = req.Content
		note.Tags = req.Tags
		if req.GoalID != "" {
			goalID, err := uuid.Parse(req.GoalID)
			if err != nil {
				writeError(w, &models.ValidationError{Field: "goal_id", Message: "invalid goal id"})
				return
			}
			note.GoalID = &goalID
		} else {
			note.GoalID = nil
		}
		if err := db.UpdateQuickNote(s.db, note); err != nil {
			writeError(w, &models.PersistenceError{Op: "update quick note", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, note)

	case http.MethodDelete:
		if err := db.DeleteQuickNote(s.db, id); err != nil {
			writeError(w, &models.PersistenceError{Op: "delete quick note", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		methodNotAllowed(w)
	}
}
