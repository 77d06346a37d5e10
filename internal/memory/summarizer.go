// ABOUTME: Summarizer condenses a session's recent turns into a stored summary
// ABOUTME: Operator-triggered only; the request path never waits on it
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/models"
)

// DefaultSummaryTurns is how much history a summary is built from
const DefaultSummaryTurns = 20

// ErrNothingToSummarize is returned when the session has no turns
var ErrNothingToSummarize = errors.New("session has no turns to summarize")

// Summarizer writes session summaries back through the store's summary capability
type Summarizer struct {
	store   Store
	writer  SummaryWriter
	invoker llm.Invoker
	modelID string
	turns   int
	logger  *slog.Logger
}

// NewSummarizer returns ErrSummaryUnsupported when store cannot persist summaries
func NewSummarizer(store Store, invoker llm.Invoker, modelID string, logger *slog.Logger) (*Summarizer, error) {
	if store == nil {
		return nil, ErrNotConfigured
	}
	writer, ok := store.(SummaryWriter)
	if !ok {
		return nil, ErrSummaryUnsupported
	}
	if invoker == nil {
		return nil, errors.New("summarizer requires a model client")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		store:   store,
		writer:  writer,
		invoker: invoker,
		modelID: modelID,
		turns:   DefaultSummaryTurns,
		logger:  logger,
	}, nil
}

// Summarize builds a summary for key, stores it and returns it
func (s *Summarizer) Summarize(ctx context.Context, key models.SessionKey) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}

	turns, err := s.store.GetRecentTurns(ctx, key, s.turns)
	if err != nil {
		return "", fmt.Errorf("failed to load turns: %w", err)
	}
	if len(turns) == 0 {
		return "", ErrNothingToSummarize
	}

	reply, err := s.invoker.Invoke(ctx, s.modelID, summaryPrompt(turns))
	if err != nil {
		return "", fmt.Errorf("failed to summarize session: %w", err)
	}
	summary := strings.TrimSpace(reply)

	if err := s.writer.PutSummary(ctx, key, summary); err != nil {
		return "", fmt.Errorf("failed to store summary: %w", err)
	}

	s.logger.Info("session summarized",
		"actor_id", key.ActorID,
		"session_id", key.SessionID,
		"turns", len(turns))
	return summary, nil
}

func summaryPrompt(turns []models.ConversationTurn) string {
	var sb strings.Builder
	sb.WriteString("Resuma a conversa abaixo entre um viajante e seu assistente de viagens em no máximo 5 frases. ")
	sb.WriteString("Mantenha destinos, datas, reservas e preferências mencionadas. Responda apenas com o resumo.\n\n")
	for _, t := range turns {
		fmt.Fprintf(&sb, "[%s] %s\n", t.Role, UnwrapContent(t.Content))
	}
	return sb.String()
}
