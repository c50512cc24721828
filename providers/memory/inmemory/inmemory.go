// Package inmemory implements [memory.Store] with in-process maps. It backs
// unit tests and local development without a database.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minhuy206/chatsapp/providers/ai"
	"github.com/minhuy206/chatsapp/providers/memory"
)

// Store is a mutex-guarded in-process implementation of memory.Store.
type Store struct {
	mu            sync.Mutex
	conversations map[string]memory.Conversation
	messages      map[string][]memory.StoredMessage
	order         []string // conversation ids, creation order
}

var _ memory.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		conversations: make(map[string]memory.Conversation),
		messages:      make(map[string][]memory.StoredMessage),
	}
}

// CreateConversation creates a new conversation and returns it.
func (s *Store) CreateConversation(_ context.Context, title string) (*memory.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation := memory.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
	}
	s.conversations[conversation.ID] = conversation
	s.order = append(s.order, conversation.ID)

	return &conversation, nil
}

// GetConversation returns a conversation by id, or memory.ErrNotFound.
func (s *Store) GetConversation(_ context.Context, id string) (*memory.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return nil, memory.ErrNotFound
	}
	return &conversation, nil
}

// ListConversations returns all conversations, newest first.
func (s *Store) ListConversations(_ context.Context) ([]memory.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := make([]memory.Conversation, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		conversations = append(conversations, s.conversations[s.order[i]])
	}
	return conversations, nil
}

// Messages returns the conversation's messages oldest-first.
func (s *Store) Messages(_ context.Context, conversationID string) ([]memory.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, memory.ErrNotFound
	}

	stored := s.messages[conversationID]
	messages := make([]memory.StoredMessage, len(stored))
	copy(messages, stored)
	return messages, nil
}

// AppendMessage persists one message at the end of the conversation.
func (s *Store) AppendMessage(_ context.Context, conversationID string, role ai.MessageRole, content, modelUsed string) (*memory.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, memory.ErrNotFound
	}

	message := memory.StoredMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		ModelUsed:      modelUsed,
		CreatedAt:      time.Now(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], message)

	return &message, nil
}
