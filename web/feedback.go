// ABOUTME: Feedback forwarder posting user reports to a configured webhook
// ABOUTME: Webhook failures never affect the caller; absent config drops quietly
package web

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/harperreed/daydash/models"
)

type feedbackRequest struct {
	Message string `json:"message"`
	Page    string `json:"page"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req feedbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Message == "" {
		writeError(w, &models.ValidationError{Field: "message", Message: "required"})
		return
	}

	if s.feedbackURL == "" {
		log.Printf("feedback received from user %s but no webhook configured, dropping", userID)
		writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
		return
	}

	go s.forwardFeedback(userID, req)
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

func (s *Server) forwardFeedback(userID string, req feedbackRequest) {
	payload, err := json.Marshal(map[string]string{
		"user_id":   userID,
		"message":   req.Message,
		"page":      req.Page,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("feedback payload marshal failed: %v", err)
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(s.feedbackURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("feedback webhook unreachable: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("feedback webhook returned %d", resp.StatusCode)
	}
}
