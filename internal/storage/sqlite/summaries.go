// ABOUTME: Session summary storage for SQLite
// ABOUTME: One summary per (memory, actor, session); writes replace the previous summary
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/harper/triprouter/internal/models"
)

// SummaryStore handles summary persistence
type SummaryStore struct {
	db *DB
}

// NewSummaryStore creates a new SummaryStore
func NewSummaryStore(db *DB) *SummaryStore {
	return &SummaryStore{db: db}
}

// Put upserts the summary for a session
func (s *SummaryStore) Put(ctx context.Context, memoryID string, key models.SessionKey, content string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (memory_id, namespace, actor_id, session_id, content, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(memory_id, actor_id, session_id) DO UPDATE SET
			namespace = excluded.namespace,
			content = excluded.content,
			updated_at = excluded.updated_at
	`, memoryID, key.SummaryNamespace(), key.ActorID, key.SessionID, content, time.Now().UTC())
	return err
}

// Get returns the summary for a session, or "" when none exists
func (s *SummaryStore) Get(ctx context.Context, memoryID string, key models.SessionKey) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM summaries WHERE memory_id = ? AND actor_id = ? AND session_id = ?
	`, memoryID, key.ActorID, key.SessionID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return content, err
}

// Delete removes a session summary
func (s *SummaryStore) Delete(ctx context.Context, memoryID string, key models.SessionKey) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM summaries WHERE memory_id = ? AND actor_id = ? AND session_id = ?
	`, memoryID, key.ActorID, key.SessionID)
	return err
}
