// ABOUTME: Formatter turns stored history into a prompt block and records new turns
// ABOUTME: Every read degrades to "" and every write is best effort; nothing here fails a request
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harper/triprouter/internal/models"
)

// Defaults applied when Options leaves a field zero
const (
	DefaultTopK    = 5
	DefaultTimeout = 3 * time.Second
)

const (
	summaryHeading = "# Session Summary"
	turnsHeading   = "# Relevant Previous Context"
)

// Options configures a Formatter
type Options struct {
	TopK    int
	Timeout time.Duration
	// Scorer overrides the store-supplied relevance; nil keeps the store value
	Scorer RelevanceScorer
	Logger *slog.Logger
}

// Formatter is the single place that decides whether memory is configured.
// A Formatter built with a nil store behaves as "not configured".
type Formatter struct {
	store   Store
	topK    int
	timeout time.Duration
	scorer  RelevanceScorer
	logger  *slog.Logger
}

// NewFormatter creates a formatter over store; store may be nil
func NewFormatter(store Store, opts Options) *Formatter {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Formatter{
		store:   store,
		topK:    opts.TopK,
		timeout: opts.Timeout,
		scorer:  opts.Scorer,
		logger:  opts.Logger,
	}
}

// IsConfigured reports whether a memory store is available
func (f *Formatter) IsConfigured() bool {
	return f != nil && f.store != nil
}

// TopK returns how many turns BuildPromptContext fetches
func (f *Formatter) TopK() int {
	return f.topK
}

// BuildPromptContext renders the session summary and recent turns.
// It returns "" when memory is unconfigured, unreachable or empty.
func (f *Formatter) BuildPromptContext(ctx context.Context, key models.SessionKey, query string, includeSummary bool) string {
	if !f.IsConfigured() {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var (
		summary string
		turns   []models.ConversationTurn
		g       errgroup.Group
	)

	if includeSummary {
		g.Go(func() error {
			s, err := f.store.GetSummary(ctx, key)
			if err != nil {
				f.logger.Debug("session summary unavailable",
					"actor_id", key.ActorID,
					"session_id", key.SessionID,
					"error", err)
				return nil
			}
			summary = s
			return nil
		})
	}

	g.Go(func() error {
		t, err := f.store.GetRecentTurns(ctx, key, f.topK)
		if err != nil {
			f.logger.Warn("failed to load recent turns",
				"actor_id", key.ActorID,
				"session_id", key.SessionID,
				"error", err)
			return nil
		}
		turns = t
		return nil
	})

	_ = g.Wait()

	if f.scorer != nil {
		for i := range turns {
			turns[i].RelevanceScore = f.scorer.Score(query, turns[i])
		}
	}

	return Render(summary, turns)
}

// Render formats a summary and turns; it returns "" when both are empty
func Render(summary string, turns []models.ConversationTurn) string {
	var parts []string

	if strings.TrimSpace(summary) != "" {
		parts = append(parts, fmt.Sprintf("%s\n%s\n", summaryHeading, summary))
	}

	if len(turns) > 0 {
		parts = append(parts, turnsHeading)
		for i, turn := range turns {
			parts = append(parts, fmt.Sprintf("%d. [%s] %s (relevance: %.2f)",
				i+1, turn.Role, UnwrapContent(turn.Content), turn.RelevanceScore))
		}
	}

	return strings.Join(parts, "\n")
}

// UnwrapContent returns the text field of a {"text": ...} envelope, or s unchanged
func UnwrapContent(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return s
	}
	var envelope struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil || envelope.Text == nil {
		return s
	}
	return *envelope.Text
}

// RecordInteraction appends the user turn then the assistant turn.
// Failures are logged and swallowed.
func (f *Formatter) RecordInteraction(ctx context.Context, key models.SessionKey, userText, agentText string) {
	f.RecordConversation(ctx, key, models.InteractionMessages(userText, agentText))
}

// RecordConversation appends msgs in order with the same best-effort semantics
func (f *Formatter) RecordConversation(ctx context.Context, key models.SessionKey, msgs []models.Message) {
	if !f.IsConfigured() {
		f.logger.Warn("memory not configured, skipping save",
			"actor_id", key.ActorID,
			"session_id", key.SessionID)
		return
	}
	if len(msgs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.store.AppendTurns(ctx, key, msgs); err != nil {
		f.logger.Error("failed to save conversation",
			"actor_id", key.ActorID,
			"session_id", key.SessionID,
			"turns", len(msgs),
			"error", err)
		return
	}
	f.logger.Debug("conversation saved",
		"actor_id", key.ActorID,
		"session_id", key.SessionID,
		"turns", len(msgs))
}

// RecentTurns is the error-returning read used by operator tools
func (f *Formatter) RecentTurns(ctx context.Context, key models.SessionKey, k int) ([]models.ConversationTurn, error) {
	if !f.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if k <= 0 {
		k = f.topK
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	turns, err := f.store.GetRecentTurns(ctx, key, k)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent turns: %w", err)
	}
	return turns, nil
}

// Summary returns the stored session summary for operator tools
func (f *Formatter) Summary(ctx context.Context, key models.SessionKey) (string, error) {
	if !f.IsConfigured() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	summary, err := f.store.GetSummary(ctx, key)
	if errors.Is(err, ErrSummaryUnsupported) {
		return "", nil
	}
	return summary, err
}

// Store exposes the backing store, nil when unconfigured
func (f *Formatter) Store() Store {
	if f == nil {
		return nil
	}
	return f.store
}
