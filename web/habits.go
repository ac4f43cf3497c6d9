// ABOUTME: HTTP handlers for habits and their daily completion logs
// ABOUTME: Toggling a day recomputes streaks from the full log history
package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/models"
	"github.com/harperreed/daydash/schedule"
)

type habitRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleHabits(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		habits, err := db.FindHabits(s.db, userID)
		if err != nil {
			writeError(w, &models.PersistenceError{Op: "list habits", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"habits": habits})

	case http.MethodPost:
		var req habitRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Title == "" {
			writeError(w, &models.ValidationError{Field: "title", Message: "required"})
			return
		}

		habit := &models.Habit{UserID: userID, Title: req.Title, IsActive: true}
		if err := db.CreateHabit(s.db, habit); err != nil {
			writeError(w, &models.PersistenceError{Op: "create habit", Err: err})
			return
		}
		writeJSON(w, http.StatusCreated, habit)

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleHabitByID(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/habits/"))
	if err != nil {
		writeError(w, &models.ValidationError{Field: "id", Message: "invalid habit id"})
		return
	}

	habit, err := db.GetHabit(s.db, id)
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "get habit", Err: err})
		return
	}
	if habit == nil || habit.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, habit)

	case http.MethodPut:
		var req habitRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Title != "" {
			habit.Title = req.Title
		}
		if err := db.UpdateHabit(s.db, habit); err != nil {
			writeError(w, &models.PersistenceError{Op: "update habit", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, habit)

	case http.MethodDelete:
		if err := db.DeleteHabit(s.db, id); err != nil {
			writeError(w, &models.PersistenceError{Op: "delete habit", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		methodNotAllowed(w)
	}
}

type habitLogRequest struct {
	HabitID string     `json:"habit_id"`
	Day     *time.Time `json:"day"`
}

// handleHabitLogs toggles a habit's completion for a day and recomputes
// streaks from the full history. Concurrent toggles are last-writer-wins.
func (s *Server) handleHabitLogs(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req habitLogRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	habitID, err := uuid.Parse(req.HabitID)
	if err != nil {
		writeError(w, &models.ValidationError{Field: "habit_id", Message: "invalid habit id"})
		return
	}

	habit, err := db.GetHabit(s.db, habitID)
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "get habit", Err: err})
		return
	}
	if habit == nil || habit.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	day := time.Now()
	if req.Day != nil {
		day = *req.Day
	}

	logs, err := db.GetHabitLogs(s.db, habitID)
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "get habit logs", Err: err})
		return
	}

	if loggedOn(logs, day, time.Local) {
		err = db.DeleteHabitLogForDay(s.db, habitID, day, time.Local)
	} else {
		err = db.CreateHabitLog(s.db, &models.HabitLog{HabitID: habitID, CompletedAt: day})
	}
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "toggle habit log", Err: err})
		return
	}

	logs, err = db.GetHabitLogs(s.db, habitID)
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "get habit logs", Err: err})
		return
	}
	habit.CurrentStreak, habit.LongestStreak = schedule.ComputeStreak(logs, time.Now(), time.Local)
	if err := db.UpdateHabit(s.db, habit); err != nil {
		writeError(w, &models.PersistenceError{Op: "update habit streaks", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

func loggedOn(logs []models.HabitLog, day time.Time, loc *time.Location) bool {
	y, m, d := day.In(loc).Date()
	for _, l := range logs {
		ly, lm, ld := l.CompletedAt.In(loc).Date()
		if ly == y && lm == m && ld == d {
			return true
		}
	}
	return false
}
