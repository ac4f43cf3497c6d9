// ABOUTME: HTTP handlers for task CRUD, completion toggle, and schedule moves
// ABOUTME: Task saves can opt into a best-effort calendar push
package web

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/models"
)

type taskRequest struct {
	Title                    string     `json:"title"`
	Description              string     `json:"description"`
	Status                   string     `json:"status"`
	Priority                 string     `json:"priority"`
	DueDate                  *time.Time `json:"due_date"`
	CompletedAt              *time.Time `json:"completed_at"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	SyncToCalendar           bool       `json:"sync_to_calendar"`
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		var tasks []models.Task
		var err error
		if dayStr := r.URL.Query().Get("day"); dayStr != "" {
			day, perr := time.ParseInLocation("2006-01-02", dayStr, time.Local)
			if perr != nil {
				writeError(w, &models.ValidationError{Field: "day", Message: "expected YYYY-MM-DD"})
				return
			}
			tasks, err = db.FindTasksForDay(s.db, userID, day, time.Local)
		} else {
			tasks, err = db.FindTasks(s.db, userID, 100)
		}
		if err != nil {
			writeError(w, &models.PersistenceError{Op: "list tasks", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})

	case http.MethodPost:
		var req taskRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Title == "" {
			writeError(w, &models.ValidationError{Field: "title", Message: "required"})
			return
		}

		task := &models.Task{
			UserID:                   userID,
			Title:                    req.Title,
			Description:              req.Description,
			Status:                   req.Status,
			Priority:                 req.Priority,
			DueDate:                  req.DueDate,
			CompletedAt:              req.CompletedAt,
			EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		}
		if err := db.CreateTask(s.db, task); err != nil {
			writeError(w, &models.PersistenceError{Op: "create task", Err: err})
			return
		}
		s.reconcileTaskEdit(userID, task)
		s.maybePushTask(r, userID, task, req.SyncToCalendar)
		writeJSON(w, http.StatusCreated, task)

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/tasks/"))
	if err != nil {
		writeError(w, &models.ValidationError{Field: "id", Message: "invalid task id"})
		return
	}

	task, err := db.GetTask(s.db, id)
	if err != nil {
		writeError(w, &models.PersistenceError{Op: "get task", Err: err})
		return
	}
	if task == nil || task.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, task)

	case http.MethodPut:
		var req taskRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Title != "" {
			task.Title = req.Title
		}
		task.Description = req.Description
		if req.Status != "" {
			task.Status = req.Status
		}
		if req.Priority != "" {
			task.Priority = req.Priority
		}
		task.DueDate = req.DueDate
		task.CompletedAt = req.CompletedAt
		task.EstimatedDurationMinutes = req.EstimatedDurationMinutes

		// Completing a task stamps the completion time
		if task.Status == models.TaskStatusCompleted && task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}

		if err := db.UpdateTask(s.db, task); err != nil {
			writeError(w, &models.PersistenceError{Op: "update task", Err: err})
			return
		}
		s.reconcileTaskEdit(userID, task)
		s.maybePushTask(r, userID, task, req.SyncToCalendar)
		writeJSON(w, http.StatusOK, task)

	case http.MethodDelete:
		if err := db.DeleteTask(s.db, id); err != nil {
			writeError(w, &models.PersistenceError{Op: "delete task", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		methodNotAllowed(w)
	}
}

// reconcileTaskEdit keeps an already-materialized day view in step with a
// task save. A planner is never created just for this.
func (s *Server) reconcileTaskEdit(userID string, task *models.Task) {
	s.plannersMu.Lock()
	p, ok := s.planners[userID]
	s.plannersMu.Unlock()
	if ok {
		p.ApplyTaskEdit(task)
	}
}

// maybePushTask mirrors a saved task to the calendar when asked. Push
// failures are logged and never affect the save's response.
func (s *Server) maybePushTask(r *http.Request, userID string, task *models.Task, sync bool) {
	if !sync || s.mgr == nil {
		return
	}
	if err := s.mgr.PushTask(r.Context(), userID, task); err != nil {
		log.Printf("calendar push for task %s skipped: %v", task.ID, err)
	}
}
