// ABOUTME: Day-view routes driving the planner
// ABOUTME: Loads the merged timeline and applies move/resize/create mutations
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/models"
	"github.com/harperreed/daydash/schedule"
)

func parseTaskID(taskID string) (uuid.UUID, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return uuid.Nil, &models.ValidationError{Field: "task_id", Message: "invalid task id"}
	}
	return id, nil
}

// dbTaskSource and dbTaskWriter adapt the storage package to the planner's
// contracts.
type dbTaskSource struct{ s *Server }

func (d dbTaskSource) TasksForDay(userID string, day time.Time, loc *time.Location) ([]*models.Task, error) {
	tasks, err := db.FindTasksForDay(d.s.db, userID, day, loc)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Task, len(tasks))
	for i := range tasks {
		out[i] = &tasks[i]
	}
	return out, nil
}

type dbTaskWriter struct{ s *Server }

func (d dbTaskWriter) UpdateSchedule(taskID string, start, end time.Time, durationMinutes int) error {
	id, err := parseTaskID(taskID)
	if err != nil {
		return err
	}
	return db.UpdateTaskSchedule(d.s.db, id, start, end, durationMinutes)
}

// managerEventSource resolves a calendar client per call so a connect or
// disconnect between loads takes effect immediately.
type managerEventSource struct {
	s      *Server
	userID string
}

func (m managerEventSource) ListUpcoming(ctx context.Context, maxResults, windowDays int) ([]*calendar.Event, error) {
	client, _, err := m.s.mgr.ClientFor(ctx, m.userID)
	if err != nil {
		return nil, err
	}
	return client.ListUpcoming(ctx, maxResults, windowDays)
}

func (s *Server) plannerFor(userID string) *schedule.Planner {
	s.plannersMu.Lock()
	defer s.plannersMu.Unlock()
	p, ok := s.planners[userID]
	if !ok {
		p = schedule.NewPlanner(userID, time.Local, dbTaskSource{s}, dbTaskWriter{s})
		p.SetEventSource(managerEventSource{s, userID})
		s.planners[userID] = p
	}
	return p
}

type nextMeetingView struct {
	Item         schedule.CalendarItem `json:"item"`
	MinutesUntil int                   `json:"minutes_until"`
	Joinable     bool                  `json:"joinable"`
	JoinURL      string                `json:"join_url,omitempty"`
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	day := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			writeError(w, &models.ValidationError{Field: "date", Message: "expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	planner := s.plannerFor(userID)
	if err := planner.Load(r.Context(), day); err != nil {
		writeError(w, err)
		return
	}

	items := planner.Items()
	payload := map[string]interface{}{"items": items}
	if next, minutes, ok := schedule.ComputeNextMeeting(items, time.Now()); ok {
		payload["next_meeting"] = nextMeetingView{
			Item:         next,
			MinutesUntil: minutes,
			Joinable:     schedule.IsJoinable(next),
			JoinURL:      schedule.ExtractJoinURL(next),
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleMeetingWatch streams next-meeting countdown updates as server-sent
// events. The minute ticker stays armed only while something is upcoming and
// the stream ends when the client disconnects.
func (s *Server) handleMeetingWatch(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errors.New("streaming not supported"))
		return
	}

	day := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			writeError(w, &models.ValidationError{Field: "date", Message: "expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	planner := s.plannerFor(userID)
	if err := planner.Load(r.Context(), day); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	send := func(next schedule.CalendarItem, minutes int, upcoming bool) {
		payload := map[string]interface{}{"upcoming": upcoming}
		if upcoming {
			payload["next_meeting"] = nextMeetingView{
				Item:         next,
				MinutesUntil: minutes,
				Joinable:     schedule.IsJoinable(next),
				JoinURL:      schedule.ExtractJoinURL(next),
			}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	// The ticker serializes sends under its own lock; Stop blocks until an
	// in-flight tick finishes, so nothing writes after the handler returns
	ticker := schedule.NewMeetingTicker(planner.Items, send)
	defer ticker.Stop()
	ticker.Refresh()

	<-r.Context().Done()
}

type dayMutationRequest struct {
	ID    string     `json:"id"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (s *Server) handleDayMove(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req dayMutationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == "" || req.Start == nil {
		writeError(w, &models.ValidationError{Field: "body", Message: "id and start required"})
		return
	}

	planner := s.plannerFor(userID)
	if err := planner.MoveItem(req.ID, *req.Start); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": planner.Items()})
}

func (s *Server) handleDayResize(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req dayMutationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == "" || req.End == nil {
		writeError(w, &models.ValidationError{Field: "body", Message: "id and end required"})
		return
	}

	planner := s.plannerFor(userID)
	if err := planner.ResizeItem(req.ID, *req.End); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": planner.Items()})
}

func (s *Server) handleDayBlock(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req dayMutationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Start == nil || req.End == nil {
		writeError(w, &models.ValidationError{Field: "body", Message: "start and end required"})
		return
	}

	block := s.plannerFor(userID).CreateBlock(*req.Start, *req.End)
	writeJSON(w, http.StatusCreated, block)
}
