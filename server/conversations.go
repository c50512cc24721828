package server

import (
	"encoding/json"
	"net/http"

	"github.com/minhuy206/chatsapp/providers/memory"
)

type createConversationRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	conversation, err := s.store.CreateConversation(r.Context(), req.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, conversation)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.store.ListConversations(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	if conversations == nil {
		conversations = []memory.Conversation{}
	}
	s.writeJSON(w, http.StatusOK, conversations)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	if _, err := s.store.GetConversation(r.Context(), conversationID); err != nil {
		s.writeError(w, err)
		return
	}

	messages, err := s.store.Messages(r.Context(), conversationID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if messages == nil {
		messages = []memory.StoredMessage{}
	}
	s.writeJSON(w, http.StatusOK, messages)
}
