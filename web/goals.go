// ABOUTME: HTTP handlers for goal CRUD
// ABOUTME: Goals carry a timeframe, a status, and a priority flag
package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/models"
)

type goalRequest struct {
	Title      string `json:"title"`
	Timeframe  string `json:"timeframe"`
	Status     string `json:"status"`
	IsPriority *bool  `json:"is_priority"`
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		goals, err := db.FindGoals(s.db, userID)
		if err != nil {
			writeError(w, &models.PersistenceError{Op: "list goals", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})

	case http.MethodPost:
		var req goalRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Title == "" {
			writeError(w, &models.ValidationError{Field: "title", Message: "required"})
			return
		}

		goal := &models.Goal{
			UserID:    userID,
			Title:     req.Title,
			Timeframe: req.Timeframe,
			Status:    req.Status,
		}
		if goal.Status == "" {
			goal.Status = models.GoalOnTrack
		}
		if req.IsPriority != nil {
			goal.IsPriority = *req.IsPriority
		}
		if err := db.CreateGoal(s.db, goal); err != nil {
			writeError(w, &models.PersistenceError{Op: "create goal", Err: err})
			return
		}
		writeJSON(w, http.StatusCreated, goal)

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/goals/"))
	if err != nil {
		writeError(w, &models.ValidationError{Field: "id", Message: "invalid goal id"})
		return
	}

	goal, err := db.GetGoal(s.db, id)
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "get goal", Err: err})
		return
	}
	if goal == nil || goal.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, goal)

	case http.MethodPut:
		var req goalRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Title != "" {
			goal.Title = req.Title
		}
		if req.Timeframe != "" {
			goal.Timeframe = req.Timeframe
		}
		if req.Status != "" {
			goal.Status = req.Status
		}
		if req.IsPriority != nil {
			goal.IsPriority = *req.IsPriority
		}
		if err := db.UpdateGoal(s.db, goal); err != nil {
			writeError(w, &models.PersistenceError{Op: "update goal", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, goal)

	case http.MethodDelete:
		if err := db.DeleteGoal(s.db, id); err != nil {
			writeError(w, &models.PersistenceError{Op: "delete goal", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		methodNotAllowed(w)
	}
}
