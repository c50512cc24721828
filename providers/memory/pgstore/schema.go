package pgstore

import (
	"context"
	"fmt"
)

// Schema DDL. The seq column (BIGSERIAL) provides monotonic ordering within
// a conversation, avoiding timestamp collisions from rapid-fire messages
// within the same microsecond.
const (
	createConversationsSQL = `CREATE TABLE IF NOT EXISTS conversations (
    id         UUID PRIMARY KEY,
    title      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

	createMessagesSQL = `CREATE TABLE IF NOT EXISTS messages (
    id              UUID PRIMARY KEY,
    seq             BIGSERIAL NOT NULL,
    conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    role            TEXT NOT NULL,
    content         TEXT NOT NULL DEFAULT '',
    model_used      TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

	createMessagesSeqIndexSQL = `CREATE INDEX IF NOT EXISTS idx_messages_conversation_seq
    ON messages (conversation_id, seq)`
)

// EnsureSchema creates the tables and indexes if they do not already exist.
// This is a convenience helper for development; production deployments
// should manage schema changes with proper migration tooling.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{createConversationsSQL, createMessagesSQL, createMessagesSeqIndexSQL} {
		if _, err := s.db.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("pgstore: ensure schema: %w", err)
		}
	}
	return nil
}
