// ABOUTME: Unified Storage layer that wraps the SQLite turn and summary stores
// ABOUTME: Implements the memory store contract for one memory id
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/triprouter/internal/models"
)

// Storage is the local memory backend. All reads and writes are scoped to memoryID.
type Storage struct {
	db        *DB
	memoryID  string
	turns     *TurnStore
	summaries *SummaryStore
}

// NewStorage initializes storage at the default path
func NewStorage(memoryID string) (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath(), memoryID)
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath, memoryID string) (*Storage, error) {
	if strings.TrimSpace(memoryID) == "" {
		return nil, errors.New("memory id is required")
	}

	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return newStorage(db, memoryID), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory(memoryID string) (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db, memoryID), nil
}

func newStorage(db *DB, memoryID string) *Storage {
	return &Storage{
		db:        db,
		memoryID:  memoryID,
		turns:     NewTurnStore(db),
		summaries: NewSummaryStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// MemoryID returns the memory this storage is scoped to
func (s *Storage) MemoryID() string {
	return s.memoryID
}

// AppendTurns stores msgs in order for the session
func (s *Storage) AppendTurns(ctx context.Context, key models.SessionKey, msgs []models.Message) error {
	if err := key.Validate(); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return s.turns.Append(ctx, s.memoryID, key, msgs)
}

// GetRecentTurns returns the newest k turns, oldest first
func (s *Storage) GetRecentTurns(ctx context.Context, key models.SessionKey, k int) ([]models.ConversationTurn, error) {
	turns, err := s.turns.Recent(ctx, s.memoryID, key, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	return turns, nil
}

// GetSummary returns the session summary or ""
func (s *Storage) GetSummary(ctx context.Context, key models.SessionKey) (string, error) {
	summary, err := s.summaries.Get(ctx, s.memoryID, key)
	if err != nil {
		return "", fmt.Errorf("failed to query summary: %w", err)
	}
	return summary, nil
}

// PutSummary replaces the session summary
func (s *Storage) PutSummary(ctx context.Context, key models.SessionKey, summary string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return s.summaries.Put(ctx, s.memoryID, key, summary)
}

// Sessions lists every session with stored turns
func (s *Storage) Sessions(ctx context.Context) ([]models.SessionKey, error) {
	return s.turns.Sessions(ctx, s.memoryID)
}

// ForgetSession deletes a session's turns and summary
func (s *Storage) ForgetSession(ctx context.Context, key models.SessionKey) (int64, error) {
	n, err := s.turns.DeleteSession(ctx, s.memoryID, key)
	if err != nil {
		return 0, fmt.Errorf("failed to delete turns: %w", err)
	}
	if err := s.summaries.Delete(ctx, s.memoryID, key); err != nil {
		return n, fmt.Errorf("failed to delete summary: %w", err)
	}
	return n, nil
}
