// ABOUTME: HTTP handlers for the calendar connection and event sync
// ABOUTME: Covers consent redirect, callback, event listing, and manual sync
package web

import (
	"net/http"
	"time"

	"github.com/harperreed/daydash/gcal"
	"github.com/harperreed/daydash/models"
	"github.com/harperreed/daydash/schedule"
)

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"authUrl": s.mgr.AuthURL(userID)})
}

// handleCallback is the provider's redirect target. Failures are reported
// as a dashboard query parameter rather than an error page, so the user
// lands back in the app either way.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reason := s.mgr.HandleCallback(r.Context(), q.Get("code"), q.Get("state"), q.Get("error"))
	if reason != "" {
		http.Redirect(w, r, "/dashboard?error="+reason, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/dashboard?connected=true", http.StatusFound)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := s.mgr.Disconnect(userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	client, _, err := s.mgr.ClientFor(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	evs, err := client.ListUpcoming(r.Context(), 50, 3)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]schedule.CalendarItem, 0, len(evs))
	for _, ev := range evs {
		items = append(items, *schedule.FromEvent(ev, time.Local))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": items})
}

type syncRequest struct {
	Action    string        `json:"action"`
	EventData syncEventData `json:"eventData"`
}

type syncEventData struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Start         *time.Time `json:"start"`
	End           *time.Time `json:"end"`
	TimeZone      string     `json:"timeZone"`
	GoogleEventID string     `json:"googleEventId"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req syncRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	client, _, err := s.mgr.ClientFor(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	switch req.Action {
	case "create":
		if err := requireEventWindow(req.EventData); err != nil {
			writeError(w, err)
			return
		}
		ev, err := client.CreateEvent(r.Context(), req.EventData.Title, req.EventData.Description,
			*req.EventData.Start, *req.EventData.End, req.EventData.TimeZone)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "eventId": ev.Id})

	case "update":
		if req.EventData.GoogleEventID == "" {
			writeError(w, &models.ValidationError{Field: "googleEventId", Message: "required for update"})
			return
		}
		if err := requireEventWindow(req.EventData); err != nil {
			writeError(w, err)
			return
		}
		changes := gcal.EventChanges{
			Summary:     req.EventData.Title,
			Description: req.EventData.Description,
			Start:       req.EventData.Start,
			End:         req.EventData.End,
			TimeZone:    req.EventData.TimeZone,
		}
		if _, err := client.UpdateEvent(r.Context(), req.EventData.GoogleEventID, changes); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	case "delete":
		if req.EventData.GoogleEventID == "" {
			writeError(w, &models.ValidationError{Field: "googleEventId", Message: "required for delete"})
			return
		}
		if err := client.DeleteEvent(r.Context(), req.EventData.GoogleEventID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, &models.ValidationError{Field: "action", Message: "must be create, update, or delete"})
	}
}

func requireEventWindow(data syncEventData) error {
	if data.Title == "" {
		return &models.ValidationError{Field: "title", Message: "required"}
	}
	if data.Start == nil || data.End == nil {
		return &models.ValidationError{Field: "eventData", Message: "start and end required"}
	}
	return nil
}
