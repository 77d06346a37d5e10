// ABOUTME: Tests for the agent pipeline
// ABOUTME: Fake invokers stand in for the router model and the answering model
package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/memory"
	"github.com/harper/triprouter/internal/models"
	"github.com/harper/triprouter/internal/router"
)

// modelInvoker answers the router model with a label and every other model with a reply
type modelInvoker struct {
	mu         sync.Mutex
	label      string
	reply      string
	err        error
	calls      map[string]int
	prompts    map[string]string
	imageCalls int
	imageURL   string
}

func newModelInvoker(label, reply string) *modelInvoker {
	return &modelInvoker{
		label:   label,
		reply:   reply,
		calls:   make(map[string]int),
		prompts: make(map[string]string),
	}
}

func (m *modelInvoker) Invoke(ctx context.Context, modelID, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[modelID]++
	m.prompts[modelID] = prompt
	if modelID == models.DefaultRouterModel {
		return m.label, nil
	}
	return m.reply, m.err
}

func (m *modelInvoker) InvokeWithImage(ctx context.Context, modelID, prompt, imageURL string) (string, error) {
	m.mu.Lock()
	m.imageCalls++
	m.imageURL = imageURL
	m.mu.Unlock()
	return m.Invoke(ctx, modelID, prompt)
}

// textOnlyInvoker has no image support
type textOnlyInvoker struct {
	inner *modelInvoker
}

func (t textOnlyInvoker) Invoke(ctx context.Context, modelID, prompt string) (string, error) {
	return t.inner.Invoke(ctx, modelID, prompt)
}

func newTestService(inv *modelInvoker, store memory.Store) *Service {
	r := router.New(inv, router.Config{Profiles: models.DefaultProfiles()})
	f := memory.NewFormatter(store, memory.Options{})
	return NewService(r, f, inv, nil)
}

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.FixedZone("BRT", -3*3600))

func TestInvoke_ComplexQueryUsesPlanningModel(t *testing.T) {
	inv := newModelInvoker("COMPLEX", "Aqui está seu roteiro.")
	store := memory.NewInMemoryStore()
	svc := newTestService(inv, store)
	svc.now = func() time.Time { return fixedNow }

	resp, err := svc.Invoke(context.Background(), Request{
		Prompt:    "Crie um roteiro de 5 dias em Roma",
		ActorID:   "alice",
		SessionID: "s1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Aqui está seu roteiro.", resp.Response)
	assert.Equal(t, models.Complex, resp.Metadata.Routing.Complexity)
	assert.Equal(t, models.DefaultPlanningModel, resp.Metadata.Routing.ModelID)
	assert.True(t, resp.Metadata.Routing.UseTools)
	assert.True(t, resp.Metadata.Routing.UseMemory)
	assert.Equal(t, "2026-03-14T18:09:26Z", resp.Metadata.Timestamp)
	assert.Equal(t, "alice", resp.Metadata.ActorID)
	assert.Equal(t, "s1", resp.Metadata.SessionID)
	assert.Nil(t, resp.Metadata.TripID)

	assert.Equal(t, 1, inv.calls[models.DefaultRouterModel])
	assert.Equal(t, 1, inv.calls[models.DefaultPlanningModel])

	turns, err := store.GetRecentTurns(context.Background(), models.SessionKey{ActorID: "alice", SessionID: "s1"}, 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "Crie um roteiro de 5 dias em Roma", turns[0].Content)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, "Aqui está seu roteiro.", turns[1].Content)
}

func TestInvoke_TrivialSkipsClassifierAndMemory(t *testing.T) {
	inv := newModelInvoker("COMPLEX", "Olá!")
	store := memory.NewInMemoryStore()
	key := models.SessionKey{ActorID: DefaultActorID, SessionID: DefaultSessionID}
	require.NoError(t, store.AppendTurns(context.Background(), key, models.InteractionMessages("antes", "resposta antiga")))

	svc := newTestService(inv, store)
	resp, err := svc.Invoke(context.Background(), Request{Prompt: "oi"})
	require.NoError(t, err)

	assert.Equal(t, models.Trivial, resp.Metadata.Routing.Complexity)
	assert.False(t, resp.Metadata.Routing.UseMemory)
	assert.Equal(t, DefaultActorID, resp.Metadata.ActorID)
	assert.Equal(t, DefaultSessionID, resp.Metadata.SessionID)
	assert.Zero(t, inv.calls[models.DefaultRouterModel])
	assert.NotContains(t, inv.prompts[models.DefaultChatModel], "resposta antiga")
}

func TestInvoke_MemoryContextInPrompt(t *testing.T) {
	inv := newModelInvoker("INFORMATIVE", "Seu voo sai às 10h.")
	store := memory.NewInMemoryStore()
	key := models.SessionKey{ActorID: "bob", SessionID: "trip"}
	require.NoError(t, store.AppendTurns(context.Background(), key,
		models.InteractionMessages("Meu voo é o AZ 123", "Anotado!")))
	require.NoError(t, store.PutSummary(context.Background(), key, "Viagem para Lisboa em maio"))

	svc := newTestService(inv, store)
	_, err := svc.Invoke(context.Background(), Request{
		Prompt:    "Que horas é o meu voo?",
		ActorID:   "bob",
		SessionID: "trip",
	})
	require.NoError(t, err)

	prompt := inv.prompts[models.DefaultChatModel]
	assert.Contains(t, prompt, "Viagem para Lisboa em maio")
	assert.Contains(t, prompt, "Meu voo é o AZ 123")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Que horas é o meu voo?"))
}

func TestInvoke_TripIDBecomesTripContext(t *testing.T) {
	inv := newModelInvoker("INFORMATIVE", "ok")
	svc := newTestService(inv, nil)

	resp, err := svc.Invoke(context.Background(), Request{Prompt: "Qual é o hotel?", TripID: "trip-42"})
	require.NoError(t, err)

	require.NotNil(t, resp.Metadata.TripID)
	assert.Equal(t, "trip-42", *resp.Metadata.TripID)
	assert.Contains(t, inv.prompts[models.DefaultRouterModel], "CONTEXTO DA VIAGEM")
}

func TestInvoke_TripContextInPrompt(t *testing.T) {
	inv := newModelInvoker("COMPLEX", "ok")
	svc := newTestService(inv, nil)

	resp, err := svc.Invoke(context.Background(), Request{
		Prompt: "Sugira restaurantes para o segundo dia",
		TripContext: &models.TripContext{
			TripID:       "t-9",
			Status:       models.TripStatusPlanning,
			Destinations: []string{"Roma", "Florença"},
			StartDate:    "2026-05-01",
			EndDate:      "2026-05-08",
		},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Metadata.TripID)
	assert.Equal(t, "t-9", *resp.Metadata.TripID)
	prompt := inv.prompts[models.DefaultPlanningModel]
	assert.Contains(t, prompt, "Roma, Florença")
	assert.Contains(t, prompt, "2026-05-01 → 2026-05-08")
}

func TestInvoke_ImageGoesToVisionModel(t *testing.T) {
	inv := newModelInvoker("COMPLEX", "É um cartão de embarque.")
	svc := newTestService(inv, nil)

	resp, err := svc.Invoke(context.Background(), Request{
		Prompt:   "O que é isso?",
		ImageURL: "https://example.com/pass.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, models.Vision, resp.Metadata.Routing.Complexity)
	assert.Equal(t, models.DefaultVisionModel, resp.Metadata.Routing.ModelID)
	assert.Equal(t, 1, inv.imageCalls)
	assert.Equal(t, "https://example.com/pass.jpg", inv.imageURL)
	assert.Zero(t, inv.calls[models.DefaultRouterModel])
}

func TestInvoke_ImageWithoutImageSupport(t *testing.T) {
	inv := newModelInvoker("COMPLEX", "texto")
	r := router.New(inv, router.Config{Profiles: models.DefaultProfiles()})
	svc := NewService(r, nil, textOnlyInvoker{inner: inv}, nil)

	resp, err := svc.Invoke(context.Background(), Request{
		Prompt:   "O que é isso?",
		ImageURL: "https://example.com/pass.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "texto", resp.Response)
	assert.Equal(t, 1, inv.calls[models.DefaultVisionModel])
	assert.Zero(t, inv.imageCalls)
}

func TestInvoke_RetryingTextOnlyBackendSendsText(t *testing.T) {
	inv := newModelInvoker("COMPLEX", "texto")
	r := router.New(inv, router.Config{Profiles: models.DefaultProfiles()})
	retrying := llm.NewRetrying(textOnlyInvoker{inner: inv}, 1, 0, nil)
	svc := NewService(r, nil, retrying, nil)

	resp, err := svc.Invoke(context.Background(), Request{
		Prompt:   "O que é isso?",
		ImageURL: "https://example.com/pass.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "texto", resp.Response)
	assert.Equal(t, 1, inv.calls[models.DefaultVisionModel])
	assert.Zero(t, inv.imageCalls)
}

func TestInvoke_EmptyPrompt(t *testing.T) {
	svc := newTestService(newModelInvoker("TRIVIAL", "x"), nil)

	_, err := svc.Invoke(context.Background(), Request{Prompt: "   "})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestInvoke_HasImageWithoutPromptIsAccepted(t *testing.T) {
	inv := newModelInvoker("TRIVIAL", "Recebi a imagem.")
	svc := newTestService(inv, nil)

	resp, err := svc.Invoke(context.Background(), Request{HasImage: true})
	require.NoError(t, err)
	assert.Equal(t, models.Vision, resp.Metadata.Routing.Complexity)
}

func TestInvoke_ModelFailure(t *testing.T) {
	inv := newModelInvoker("COMPLEX", "")
	inv.err = errors.New("throttled")
	store := memory.NewInMemoryStore()
	svc := newTestService(inv, store)

	_, err := svc.Invoke(context.Background(), Request{Prompt: "Planeje minha viagem ao Japão"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelCall)
	assert.Contains(t, err.Error(), "throttled")

	turns, err := store.GetRecentTurns(context.Background(),
		models.SessionKey{ActorID: DefaultActorID, SessionID: DefaultSessionID}, 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestInvoke_NoInvokerReturnsRoutingSummary(t *testing.T) {
	r := router.New(nil, router.Config{Profiles: models.DefaultProfiles()})
	svc := NewService(r, nil, nil, nil)

	resp, err := svc.Invoke(context.Background(), Request{Prompt: "Quanto custa o trem para Nápoles?"})
	require.NoError(t, err)

	assert.Equal(t, models.Informative, resp.Metadata.Routing.Complexity)
	assert.Contains(t, resp.Response, "Complexidade detectada: INFORMATIVE")
	assert.Contains(t, resp.Response, models.DefaultChatModel)
}

func TestRequest_Normalize(t *testing.T) {
	req := Request{Prompt: "x", ActorID: "  ", TripContext: &models.TripContext{TripID: "abc"}}
	req.Normalize()

	assert.Equal(t, DefaultActorID, req.ActorID)
	assert.Equal(t, DefaultSessionID, req.SessionID)
	assert.Equal(t, "abc", req.TripID)
}

func TestBuildPrompt_OmitsEmptySections(t *testing.T) {
	prompt := BuildPrompt(&Request{Prompt: "Oi, tudo bem?"}, "")

	assert.NotContains(t, prompt, "CONTEXTO DA VIAGEM")
	assert.Contains(t, prompt, "MENSAGEM DO USUÁRIO:\nOi, tudo bem?")
}
