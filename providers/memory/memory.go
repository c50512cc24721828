// Package memory defines the conversation persistence contract the
// orchestrator and the HTTP boundary depend on. Implementations live in
// subpackages: pgstore (PostgreSQL) and inmemory (tests and development).
package memory

import (
	"context"
	"time"

	"github.com/minhuy206/chatsapp/providers/ai"
)

// Conversation is one chat thread. Messages belong to exactly one
// conversation and are ordered by insertion.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredMessage is a persisted conversation entry. ModelUsed is set only on
// assistant messages and records which model produced the reply.
type StoredMessage struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Role           ai.MessageRole `json:"role"`
	Content        string         `json:"content"`
	ModelUsed      string         `json:"model_used,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Store is the persistence collaborator. The core reads an ordered message
// list per conversation and appends messages; it does not own schema
// lifecycle or transactions.
type Store interface {
	// CreateConversation creates a new conversation and returns it.
	CreateConversation(ctx context.Context, title string) (*Conversation, error)

	// GetConversation returns a conversation by id, or ErrNotFound.
	GetConversation(ctx context.Context, id string) (*Conversation, error)

	// ListConversations returns all conversations, newest first.
	ListConversations(ctx context.Context) ([]Conversation, error)

	// Messages returns the conversation's messages oldest-first. The order
	// is semantically significant: it is replayed to the provider verbatim.
	Messages(ctx context.Context, conversationID string) ([]StoredMessage, error)

	// AppendMessage persists one message at the end of the conversation.
	AppendMessage(ctx context.Context, conversationID string, role ai.MessageRole, content, modelUsed string) (*StoredMessage, error)
}

// History converts stored messages into the adapter-facing message list,
// preserving order.
func History(stored []StoredMessage) []ai.Message {
	messages := make([]ai.Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}
	return messages
}
