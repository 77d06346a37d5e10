// ABOUTME: Tests for MCP tool handlers
package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/triprouter/internal/memory"
	"github.com/harper/triprouter/internal/models"
	"github.com/harper/triprouter/internal/router"
)

func newTestHandlers(store memory.Store) *Handlers {
	r := router.New(nil, router.Config{Profiles: models.DefaultProfiles()})
	return NewHandlers(r, memory.NewFormatter(store, memory.Options{}))
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestRouteQuery(t *testing.T) {
	h := newTestHandlers(nil)

	result, err := h.RouteQuery(context.Background(), callRequest("route_query", map[string]interface{}{
		"text": "obrigado",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var decision models.RoutingDecision
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decision))
	assert.Equal(t, models.Trivial, decision.Complexity)
	assert.Equal(t, models.SourcePattern, decision.Source)
	assert.Equal(t, models.DefaultChatModel, decision.ModelID)
}

func TestRouteQuery_Attachment(t *testing.T) {
	h := newTestHandlers(nil)

	result, err := h.RouteQuery(context.Background(), callRequest("route_query", map[string]interface{}{
		"text":           "o que é isso?",
		"has_attachment": true,
		"destinations":   []interface{}{"Lisboa"},
	}))
	require.NoError(t, err)

	var decision models.RoutingDecision
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decision))
	assert.Equal(t, models.Vision, decision.Complexity)
	assert.Equal(t, models.DefaultVisionModel, decision.ModelID)
}

func TestRouteQuery_MissingText(t *testing.T) {
	h := newTestHandlers(nil)

	result, err := h.RouteQuery(context.Background(), callRequest("route_query", map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestRecordThenContext(t *testing.T) {
	h := newTestHandlers(memory.NewInMemoryStore())
	ctx := context.Background()

	result, err := h.RecordInteraction(ctx, callRequest("record_interaction", map[string]interface{}{
		"actor_id":       "ana",
		"session_id":     "roma",
		"user_message":   "Meu hotel é o Hotel Artemide",
		"agent_response": "Anotado!",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"recorded":true`)

	result, err = h.BuildPromptContext(ctx, callRequest("build_prompt_context", map[string]interface{}{
		"actor_id":   "ana",
		"session_id": "roma",
	}))
	require.NoError(t, err)

	var payload struct {
		Context          string `json:"context"`
		MemoryConfigured bool   `json:"memory_configured"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.True(t, payload.MemoryConfigured)
	assert.Contains(t, payload.Context, "Hotel Artemide")
	assert.Contains(t, payload.Context, "[ASSISTANT] Anotado!")

	result, err = h.GetRecentTurns(ctx, callRequest("get_recent_turns", map[string]interface{}{
		"actor_id":   "ana",
		"session_id": "roma",
		"limit":      1,
	}))
	require.NoError(t, err)

	var history struct {
		Count int                       `json:"count"`
		Turns []models.ConversationTurn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &history))
	assert.Equal(t, 1, history.Count)
	assert.Equal(t, models.RoleAssistant, history.Turns[0].Role)
}

func TestUnconfiguredMemory(t *testing.T) {
	h := newTestHandlers(nil)
	ctx := context.Background()

	result, err := h.BuildPromptContext(ctx, callRequest("build_prompt_context", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"context":""`)

	result, err = h.RecordInteraction(ctx, callRequest("record_interaction", map[string]interface{}{
		"user_message":   "oi",
		"agent_response": "olá",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"recorded":false`)

	result, err = h.GetRecentTurns(ctx, callRequest("get_recent_turns", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestNewServer_RegistersTools(t *testing.T) {
	r := router.New(nil, router.Config{Profiles: models.DefaultProfiles()})
	server, handlers := NewServer(r, nil)

	require.NotNil(t, server)
	require.NotNil(t, handlers)
	assert.False(t, handlers.memory.IsConfigured())
}
