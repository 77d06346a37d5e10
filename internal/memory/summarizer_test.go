// ABOUTME: Tests for session summarization
package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/models"
)

// turnsOnlyStore has no summary capability
type turnsOnlyStore struct {
	Reader
	Writer
}

func TestNewSummarizer_RequiresSummaryCapability(t *testing.T) {
	inv := llm.InvokerFunc(func(ctx context.Context, modelID, prompt string) (string, error) { return "", nil })
	base := NewInMemoryStore()

	_, err := NewSummarizer(turnsOnlyStore{Reader: base, Writer: base}, inv, "chat", nil)
	assert.ErrorIs(t, err, ErrSummaryUnsupported)

	_, err = NewSummarizer(nil, inv, "chat", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewSummarizer(base, nil, "chat", nil)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.AppendTurns(ctx, testKey, models.InteractionMessages("Vou a Roma em junho", "Ótimo! Quer ajuda com hotéis?")))

	var gotModel, gotPrompt string
	inv := llm.InvokerFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		gotModel, gotPrompt = modelID, prompt
		return "  Viajante vai a Roma em junho.  ", nil
	})

	s, err := NewSummarizer(store, inv, "chat-model", nil)
	require.NoError(t, err)

	summary, err := s.Summarize(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "Viajante vai a Roma em junho.", summary)
	assert.Equal(t, "chat-model", gotModel)
	assert.Contains(t, gotPrompt, "[USER] Vou a Roma em junho")
	assert.Contains(t, gotPrompt, "[ASSISTANT] Ótimo! Quer ajuda com hotéis?")

	stored, err := store.GetSummary(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, summary, stored)

	rendered := NewFormatter(store, Options{}).BuildPromptContext(ctx, testKey, "", true)
	assert.Contains(t, rendered, "# Session Summary\nViajante vai a Roma em junho.\n")
}

func TestSummarize_EmptySession(t *testing.T) {
	inv := llm.InvokerFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		t.Fatal("model should not be called")
		return "", nil
	})
	s, err := NewSummarizer(NewInMemoryStore(), inv, "chat", nil)
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), testKey)
	assert.ErrorIs(t, err, ErrNothingToSummarize)
}

func TestSummarize_ModelFailure(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.AppendTurns(context.Background(), testKey, models.InteractionMessages("a", "b")))
	inv := llm.InvokerFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		return "", errors.New("throttled")
	})
	s, err := NewSummarizer(store, inv, "chat", nil)
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), testKey)
	assert.Error(t, err)

	stored, _ := store.GetSummary(context.Background(), testKey)
	assert.Equal(t, "", stored)
}
