// Package pgstore implements conversation persistence on PostgreSQL via
// pgx. Thread safety is handled by the underlying connection pool; no
// application-level mutex is needed.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/minhuy206/chatsapp/providers/ai"
	"github.com/minhuy206/chatsapp/providers/memory"
)

// Querier abstracts the pgx query methods needed by Store. Both
// *pgxpool.Pool and pgx.Tx satisfy this interface, allowing callers to
// inject either a connection pool or a single transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements [memory.Store] with PostgreSQL persistence.
type Store struct {
	db Querier
}

// Compile-time check: Store must implement memory.Store.
var _ memory.Store = (*Store)(nil)

// New creates a PostgreSQL-backed store. The db parameter must be a
// pgx-compatible query executor (typically *pgxpool.Pool).
func New(db Querier) *Store {
	return &Store{db: db}
}

// CreateConversation inserts a conversation row and returns it.
func (s *Store) CreateConversation(ctx context.Context, title string) (*memory.Conversation, error) {
	conversation := &memory.Conversation{
		ID:    uuid.NewString(),
		Title: title,
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO conversations (id, title) VALUES ($1, $2) RETURNING created_at`,
		conversation.ID, conversation.Title)
	if err := row.Scan(&conversation.CreatedAt); err != nil {
		return nil, fmt.Errorf("pgstore: create conversation: %w", err)
	}

	return conversation, nil
}

// GetConversation returns a conversation by id, or memory.ErrNotFound.
func (s *Store) GetConversation(ctx context.Context, id string) (*memory.Conversation, error) {
	conversation := &memory.Conversation{ID: id}

	row := s.db.QueryRow(ctx,
		`SELECT title, created_at FROM conversations WHERE id = $1`, id)
	if err := row.Scan(&conversation.Title, &conversation.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, memory.ErrNotFound
		}
		return nil, fmt.Errorf("pgstore: get conversation: %w", err)
	}

	return conversation, nil
}

// ListConversations returns all conversations, newest first.
func (s *Store) ListConversations(ctx context.Context) ([]memory.Conversation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, created_at FROM conversations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []memory.Conversation
	for rows.Next() {
		var conversation memory.Conversation
		if err := rows.Scan(&conversation.ID, &conversation.Title, &conversation.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgstore: scan conversation: %w", err)
		}
		conversations = append(conversations, conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: list conversations: %w", err)
	}

	return conversations, nil
}

// Messages returns the conversation's messages oldest-first, ordered by the
// monotonic seq column rather than timestamps, so rapid-fire inserts within
// the same microsecond keep their insertion order.
func (s *Store) Messages(ctx context.Context, conversationID string) ([]memory.StoredMessage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, role, content, COALESCE(model_used, ''), created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY seq`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("pgstore: load messages: %w", err)
	}
	defer rows.Close()

	var messages []memory.StoredMessage
	for rows.Next() {
		message := memory.StoredMessage{ConversationID: conversationID}
		var role string
		if err := rows.Scan(&message.ID, &role, &message.Content, &message.ModelUsed, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgstore: scan message: %w", err)
		}
		message.Role = ai.MessageRole(role)
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: load messages: %w", err)
	}

	return messages, nil
}

// AppendMessage persists one message at the end of the conversation.
// modelUsed is stored as NULL for non-assistant messages.
func (s *Store) AppendMessage(ctx context.Context, conversationID string, role ai.MessageRole, content, modelUsed string) (*memory.StoredMessage, error) {
	message := &memory.StoredMessage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		ModelUsed:      modelUsed,
	}

	var modelUsedParam any
	if modelUsed != "" {
		modelUsedParam = modelUsed
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, model_used)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		message.ID, conversationID, string(role), content, modelUsedParam)
	if err := row.Scan(&message.CreatedAt); err != nil {
		return nil, fmt.Errorf("pgstore: append message: %w", err)
	}

	return message, nil
}
