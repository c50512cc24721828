package server

import (
	"encoding/json"
	"net/http"

	"github.com/minhuy206/chatsapp/core/chat"
	"github.com/minhuy206/chatsapp/providers/ai"
)

// chatRequest is the body of POST /api/conversations/{id}/chat and of the
// first WebSocket frame on the ws endpoint.
type chatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// handleChatSSE runs one chat turn and streams the boundary events over
// Server-Sent Events, one "data:" line per event.
//
// The user message is persisted before the provider call. The assistant
// reply is persisted only after the turn succeeds: a turn that fails
// mid-stream emits an error event and stores no partial reply.
func (s *Server) handleChatSSE(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" || req.Model == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "message and model are required"})
		return
	}

	if _, err := s.store.GetConversation(r.Context(), conversationID); err != nil {
		s.writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported"})
		return
	}

	if _, err := s.store.AppendMessage(r.Context(), conversationID, ai.RoleUser, req.Message, ""); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sink := func(event chat.Event) {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Warn("failed to encode event", "error", err.Error())
			return
		}
		if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
			// Client gone; the context cancellation stops the turn.
			return
		}
		flusher.Flush()
	}

	result, err := s.orchestrator.StreamTurn(r.Context(), conversationID, req.Model, sink)
	if err != nil {
		// The error event has already been emitted through the sink; the
		// response status is committed, so there is nothing else to send.
		return
	}

	if _, err := s.store.AppendMessage(r.Context(), conversationID, ai.RoleAssistant, result.Content, req.Model); err != nil {
		s.logger.Error("failed to persist assistant message",
			"conversation_id", conversationID, "error", err.Error())
	}
}
