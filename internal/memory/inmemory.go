// ABOUTME: In-process memory store for development servers and tests
// ABOUTME: History lives only as long as the process; safe for concurrent use
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/harper/triprouter/internal/models"
)

// InMemoryStore keeps turns and summaries in maps keyed by session
type InMemoryStore struct {
	mu        sync.RWMutex
	turns     map[models.SessionKey][]models.ConversationTurn
	summaries map[models.SessionKey]string
	now       func() time.Time
}

// NewInMemoryStore creates an empty store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		turns:     make(map[models.SessionKey][]models.ConversationTurn),
		summaries: make(map[models.SessionKey]string),
		now:       time.Now,
	}
}

// AppendTurns stores msgs after the existing history
func (s *InMemoryStore) AppendTurns(ctx context.Context, key models.SessionKey, msgs []models.Message) error {
	if err := key.Validate(); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		at := s.now().UTC()
		s.turns[key] = append(s.turns[key], models.ConversationTurn{
			TurnID:         models.NewTurnID(at),
			Content:        m.Content,
			Role:           m.Role,
			Timestamp:      &at,
			RelevanceScore: models.DefaultRelevance,
		})
	}
	return nil
}

// GetRecentTurns returns the newest k turns, oldest first
func (s *InMemoryStore) GetRecentTurns(ctx context.Context, key models.SessionKey, k int) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[key]
	if k > 0 && len(all) > k {
		all = all[len(all)-k:]
	}
	out := make([]models.ConversationTurn, len(all))
	copy(out, all)
	return out, nil
}

// GetSummary returns the stored summary or ""
func (s *InMemoryStore) GetSummary(ctx context.Context, key models.SessionKey) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaries[key], nil
}

// PutSummary replaces the session summary
func (s *InMemoryStore) PutSummary(ctx context.Context, key models.SessionKey, summary string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[key] = summary
	return nil
}

var (
	_ Store         = (*InMemoryStore)(nil)
	_ SummaryWriter = (*InMemoryStore)(nil)
)
