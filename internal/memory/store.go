// ABOUTME: Boundary interfaces for the external conversation memory store
// ABOUTME: Backends (sqlite, charm, in-process) implement Store; summaries are an optional capability
package memory

import (
	"context"
	"errors"

	"github.com/harper/triprouter/internal/models"
)

var (
	// ErrNotConfigured is returned by read paths whose contract allows an error
	ErrNotConfigured = errors.New("memory not configured")

	// ErrSummaryUnsupported is returned by stores that have no summary strategy
	ErrSummaryUnsupported = errors.New("summary strategy not configured")
)

// Reader fetches history for one (actor, session) pair
type Reader interface {
	// GetRecentTurns returns up to k of the newest turns, oldest first
	GetRecentTurns(ctx context.Context, key models.SessionKey, k int) ([]models.ConversationTurn, error)
	// GetSummary returns "" with a nil error when no summary exists
	GetSummary(ctx context.Context, key models.SessionKey) (string, error)
}

// Writer appends turns in order
type Writer interface {
	AppendTurns(ctx context.Context, key models.SessionKey, msgs []models.Message) error
}

// SummaryWriter is implemented by stores that can persist session summaries
type SummaryWriter interface {
	PutSummary(ctx context.Context, key models.SessionKey, summary string) error
}

// Store is a full read/write memory backend
type Store interface {
	Reader
	Writer
}
