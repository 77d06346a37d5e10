// ABOUTME: Conversation memory store on top of a charm-style key/value client
// ABOUTME: Turns are keyed by a zero-padded sequence so key order is insertion order
package charm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/harper/triprouter/internal/models"
)

// Key prefixes for different entity types
const (
	TurnPrefix    = "turn:"
	SummaryPrefix = "summary:"
)

// KV is the subset of Client the store needs
type KV interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
}

// storedTurn is the JSON value kept under a turn key
type storedTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// storedSummary is the JSON value kept under a summary key
type storedSummary struct {
	Namespace string    `json:"namespace"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store implements the memory store contract for one memory id
type Store struct {
	kv       KV
	memoryID string
	now      func() time.Time

	mu      sync.Mutex
	lastSeq int64
}

// NewStore creates a store over kv scoped to memoryID
func NewStore(kv KV, memoryID string) *Store {
	return &Store{kv: kv, memoryID: memoryID, now: time.Now}
}

// sessionPrefix query-escapes each component, which encodes ':' and '%',
// so the separator never appears inside an id
func (s *Store) sessionPrefix(prefix string, key models.SessionKey) string {
	return prefix + url.QueryEscape(s.memoryID) + ":" +
		url.QueryEscape(key.ActorID) + ":" + url.QueryEscape(key.SessionID) + ":"
}

// TurnKey generates the key for one turn
func (s *Store) TurnKey(key models.SessionKey, seq int64) string {
	return fmt.Sprintf("%s%020d", s.sessionPrefix(TurnPrefix, key), seq)
}

// SummaryKey generates the key for a session summary
func (s *Store) SummaryKey(key models.SessionKey) string {
	return strings.TrimSuffix(s.sessionPrefix(SummaryPrefix, key), ":")
}

// nextSeq returns a strictly increasing sequence based on the clock
func (s *Store) nextSeq(at time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := at.UnixNano()
	if seq <= s.lastSeq {
		seq = s.lastSeq + 1
	}
	s.lastSeq = seq
	return seq
}

// AppendTurns stores msgs in order
func (s *Store) AppendTurns(ctx context.Context, key models.SessionKey, msgs []models.Message) error {
	if err := key.Validate(); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		at := s.now().UTC()
		data, err := json.Marshal(storedTurn{
			ID:        models.NewTurnID(at),
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: at,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal turn: %w", err)
		}
		if err := s.kv.Set(s.TurnKey(key, s.nextSeq(at)), data); err != nil {
			return err
		}
	}
	return nil
}

// GetRecentTurns returns the newest k turns, oldest first; k <= 0 returns all
func (s *Store) GetRecentTurns(ctx context.Context, key models.SessionKey, k int) ([]models.ConversationTurn, error) {
	keys, err := s.kv.ListKeys(s.sessionPrefix(TurnPrefix, key))
	if err != nil {
		return nil, err
	}
	if k > 0 && len(keys) > k {
		keys = keys[len(keys)-k:]
	}

	turns := make([]models.ConversationTurn, 0, len(keys))
	for _, kvKey := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.kv.Get(kvKey)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", kvKey, err)
		}
		var st storedTurn
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", kvKey, err)
		}
		createdAt := st.CreatedAt
		turns = append(turns, models.ConversationTurn{
			TurnID:         st.ID,
			Content:        st.Content,
			Role:           models.Role(st.Role),
			Timestamp:      &createdAt,
			RelevanceScore: models.DefaultRelevance,
		})
	}
	return turns, nil
}

// GetSummary returns the session summary or ""
func (s *Store) GetSummary(ctx context.Context, key models.SessionKey) (string, error) {
	summaryKey := s.SummaryKey(key)
	keys, err := s.kv.ListKeys(summaryKey)
	if err != nil {
		return "", err
	}
	found := false
	for _, k := range keys {
		if k == summaryKey {
			found = true
			break
		}
	}
	if !found {
		return "", nil
	}

	data, err := s.kv.Get(summaryKey)
	if err != nil {
		return "", fmt.Errorf("failed to get summary: %w", err)
	}
	var ss storedSummary
	if err := json.Unmarshal(data, &ss); err != nil {
		return "", fmt.Errorf("failed to decode summary: %w", err)
	}
	return ss.Content, nil
}

// PutSummary replaces the session summary
func (s *Store) PutSummary(ctx context.Context, key models.SessionKey, summary string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(storedSummary{
		Namespace: key.SummaryNamespace(),
		Content:   summary,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return s.kv.Set(s.SummaryKey(key), data)
}

// ForgetSession deletes a session's turns and summary
func (s *Store) ForgetSession(ctx context.Context, key models.SessionKey) (int64, error) {
	keys, err := s.kv.ListKeys(s.sessionPrefix(TurnPrefix, key))
	if err != nil {
		return 0, err
	}
	var n int64
	for _, k := range keys {
		if err := s.kv.Delete(k); err != nil {
			return n, err
		}
		n++
	}
	summary, err := s.GetSummary(ctx, key)
	if err != nil {
		return n, fmt.Errorf("failed to read summary: %w", err)
	}
	if summary != "" {
		if err := s.kv.Delete(s.SummaryKey(key)); err != nil {
			return n, err
		}
	}
	return n, nil
}

var _ KV = (*Client)(nil)
