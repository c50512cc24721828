// Package server is the HTTP boundary around the streaming core: bearer
// authentication, conversation REST endpoints, and the SSE and WebSocket
// chat transports. It maps taxonomy errors to transport statuses and renders
// only safe user-facing messages.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/minhuy206/chatsapp/core/chat"
	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/providers/memory"
)

// Server holds the boundary dependencies and the route table.
type Server struct {
	orchestrator *chat.Orchestrator
	store        memory.Store
	auth         *authenticator
	logger       *slog.Logger
	mux          *http.ServeMux
}

// New builds the server and registers its routes. tokens is the accepted
// bearer token set; an empty set rejects every request, so a deployment
// must configure at least one token.
func New(orchestrator *chat.Orchestrator, store memory.Store, tokens []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		orchestrator: orchestrator,
		store:        store,
		auth:         newAuthenticator(tokens),
		logger:       logger,
		mux:          http.NewServeMux(),
	}

	server.mux.HandleFunc("GET /healthz", server.handleHealth)
	server.mux.Handle("POST /api/conversations", server.auth.wrap(server.handleCreateConversation))
	server.mux.Handle("GET /api/conversations", server.auth.wrap(server.handleListConversations))
	server.mux.Handle("GET /api/conversations/{id}/messages", server.auth.wrap(server.handleListMessages))
	server.mux.Handle("POST /api/conversations/{id}/chat", server.auth.wrap(server.handleChatSSE))
	server.mux.Handle("GET /api/conversations/{id}/ws", server.auth.wrap(server.handleChatWS))

	return server
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// writeJSON renders a JSON response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode response", "error", err.Error())
	}
}

// errorBody is the JSON error envelope for non-streaming endpoints.
type errorBody struct {
	Error string `json:"error"`
}

// writeError maps err to a transport status and renders only the safe
// user-facing message. Internal detail goes to the log, never to the
// caller.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err.Error())

	if errors.Is(err, memory.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "conversation not found"})
		return
	}

	var taxonomyErr *llmerr.Error
	if errors.As(err, &taxonomyErr) {
		s.writeJSON(w, statusForKind(taxonomyErr.Kind), errorBody{Error: taxonomyErr.UserMessage()})
		return
	}

	s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

// statusForKind maps a taxonomy kind to the HTTP status the boundary
// responds with.
func statusForKind(kind llmerr.Kind) int {
	switch kind {
	case llmerr.KindRateLimit:
		return http.StatusTooManyRequests
	case llmerr.KindAuthentication:
		return http.StatusBadGateway // our credential toward the provider, not the caller's
	case llmerr.KindInvalidRequest:
		return http.StatusBadRequest
	case llmerr.KindModelNotFound:
		return http.StatusNotFound
	case llmerr.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case llmerr.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
