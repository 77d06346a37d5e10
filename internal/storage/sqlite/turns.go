// ABOUTME: Event storage operations for SQLite
// ABOUTME: Appends turns in order and reads back the newest k per session
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/triprouter/internal/models"
)

// TurnStore handles turn persistence
type TurnStore struct {
	db  *DB
	now func() time.Time
}

// NewTurnStore creates a new TurnStore
func NewTurnStore(db *DB) *TurnStore {
	return &TurnStore{db: db, now: time.Now}
}

// Append writes msgs in one transaction so a user turn never lands without its reply
func (s *TurnStore) Append(ctx context.Context, memoryID string, key models.SessionKey, msgs []models.Message) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (id, memory_id, actor_id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range msgs {
		at := s.now().UTC()
		if _, err := stmt.ExecContext(ctx, models.NewTurnID(at), memoryID, key.ActorID, key.SessionID,
			string(m.Role), m.Content, at); err != nil {
			return fmt.Errorf("failed to insert %s turn: %w", m.Role, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to k of the newest turns for a session, oldest first.
// k <= 0 returns the whole session.
func (s *TurnStore) Recent(ctx context.Context, memoryID string, key models.SessionKey, k int) ([]models.ConversationTurn, error) {
	limit := k
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, created_at FROM (
			SELECT seq, id, role, content, created_at
			FROM events
			WHERE memory_id = ? AND actor_id = ? AND session_id = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, memoryID, key.ActorID, key.SessionID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var turns []models.ConversationTurn
	for rows.Next() {
		var (
			turn      models.ConversationTurn
			role      string
			createdAt time.Time
		)
		if err := rows.Scan(&turn.TurnID, &role, &turn.Content, &createdAt); err != nil {
			return nil, err
		}
		turn.Role = models.Role(role)
		turn.Timestamp = &createdAt
		turn.RelevanceScore = models.DefaultRelevance
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

// Sessions lists every (actor, session) pair with stored turns
func (s *TurnStore) Sessions(ctx context.Context, memoryID string) ([]models.SessionKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT actor_id, session_id
		FROM events
		WHERE memory_id = ?
		GROUP BY actor_id, session_id
		ORDER BY MIN(seq) ASC
	`, memoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []models.SessionKey
	for rows.Next() {
		var key models.SessionKey
		if err := rows.Scan(&key.ActorID, &key.SessionID); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DeleteSession removes all turns of a session and returns how many were deleted
func (s *TurnStore) DeleteSession(ctx context.Context, memoryID string, key models.SessionKey) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE memory_id = ? AND actor_id = ? AND session_id = ?
	`, memoryID, key.ActorID, key.SessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
