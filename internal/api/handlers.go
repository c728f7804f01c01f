// Package api provides HTTP handlers for sitebot endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/instalogic/sitebot/internal/models"
)

// chatResponse is the widget-facing shape of a chat turn.
type chatResponse struct {
	Response     string              `json:"response"`
	SessionID    string              `json:"session_id"`
	Type         models.RouteKind    `json:"type"`
	QuickReplies []string            `json:"quick_replies"`
	Sources      []string            `json:"sources,omitempty"`
	TicketID     string              `json:"ticket_id,omitempty"`
	RichPayload  *models.RichPayload `json:"rich_payload,omitempty"`
	Metadata     map[string]string   `json:"metadata,omitempty"`
	Timestamp    time.Time           `json:"timestamp"`
}

// chatHandler handles POST /api/chat.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.chatHandler: processing chat request", "method", r.Method, "path", r.URL.Path)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.chatHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	// Issue a fresh session ID when the widget has none yet, or when it sent
	// an ID this server never saw (e.g. after a restart).
	sessionID := req.SessionID
	if sessionID == "" || !s.history.exists(sessionID) {
		sessionID = uuid.NewString()
		slog.Debug("Server.chatHandler: issued new session", "session_id", sessionID)
	}

	s.history.append(sessionID, "user", req.Message)

	result := s.router.Route(r.Context(), sessionID, req.Message)

	s.history.append(sessionID, "assistant", result.Reply)

	replies := quickRepliesFor(result, req.Message)
	writeJSONResponse(w, http.StatusOK, chatResponse{
		Response:     result.Reply,
		SessionID:    sessionID,
		Type:         result.Kind,
		QuickReplies: replies,
		Sources:      result.Sources,
		TicketID:     result.TicketID,
		RichPayload:  result.Payload,
		Metadata:     result.Metadata,
		Timestamp:    time.Now(),
	})
}

// quickRepliesFor converts payload buttons to quick-reply labels, falling back
// to the keyword table when the turn carried no buttons.
func quickRepliesFor(result models.RoutedResult, message string) []string {
	if result.Payload != nil && len(result.Payload.Buttons) > 0 {
		labels := make([]string, 0, models.MaxButtons)
		for _, b := range result.Payload.Buttons {
			labels = append(labels, b.Label)
			if len(labels) == models.MaxButtons {
				break
			}
		}
		return labels
	}
	return fallbackQuickReplies(message)
}

// historyHandler handles GET /api/chat/history/{sessionID}.
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	sess, ok := s.history.get(sessionID)
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"session_id":    sessionID,
		"messages":      sess.Messages,
		"created_at":    sess.CreatedAt,
		"last_activity": sess.LastActivity,
	}))
}

// sessionsHandler handles GET /api/chat/sessions.
func (s *Server) sessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions := s.history.list()
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	}))
}

// deleteSessionHandler handles DELETE /api/chat/session/{sessionID}.
func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if !s.history.delete(sessionID) {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}
	slog.Info("Server.deleteSessionHandler: session deleted", "session_id", sessionID)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session deleted", nil))
}

// healthHandler handles GET /api/health.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if _, err := s.st.GetLeadStats(); err != nil {
		slog.Error("Server.healthHandler: store probe failed", "error", err)
		dbStatus = "error"
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"status":    "healthy",
		"database":  dbStatus,
		"timestamp": time.Now(),
	}))
}
