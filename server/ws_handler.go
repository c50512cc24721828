package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/minhuy206/chatsapp/core/chat"
	"github.com/minhuy206/chatsapp/providers/ai"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// handleChatWS serves the same discriminated event stream over a WebSocket:
// the client sends one chatRequest frame, the server answers with one JSON
// frame per boundary event, then closes. The event sequence is identical to
// the SSE transport.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	if _, err := s.store.GetConversation(r.Context(), conversationID); err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	var req chatRequest
	if err := conn.ReadJSON(&req); err != nil || req.Message == "" || req.Model == "" {
		_ = conn.WriteJSON(chat.Event{Type: chat.EventError, Message: "message and model are required"})
		return
	}

	if _, err := s.store.AppendMessage(r.Context(), conversationID, ai.RoleUser, req.Message, ""); err != nil {
		s.logger.Error("failed to persist user message",
			"conversation_id", conversationID, "error", err.Error())
		_ = conn.WriteJSON(chat.Event{Type: chat.EventError, Message: "internal error"})
		return
	}

	sink := func(event chat.Event) {
		if err := conn.WriteJSON(event); err != nil {
			// Client gone; the context cancellation stops the turn.
			s.logger.Debug("websocket write failed", "error", err.Error())
		}
	}

	result, err := s.orchestrator.StreamTurn(r.Context(), conversationID, req.Model, sink)
	if err != nil {
		return
	}

	if _, err := s.store.AppendMessage(r.Context(), conversationID, ai.RoleAssistant, result.Content, req.Model); err != nil {
		s.logger.Error("failed to persist assistant message",
			"conversation_id", conversationID, "error", err.Error())
	}
}
