// ABOUTME: MCP tool handler implementations for the query router
// ABOUTME: Tool failures come back as error results, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/triprouter/internal/agent"
	"github.com/harper/triprouter/internal/memory"
	"github.com/harper/triprouter/internal/models"
	"github.com/harper/triprouter/internal/router"
)

// DefaultHistoryLimit is used when get_recent_turns has no limit
const DefaultHistoryLimit = 10

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	router *router.Router
	memory *memory.Formatter
}

// NewHandlers creates handlers; a nil formatter means memory is not configured
func NewHandlers(r *router.Router, mem *memory.Formatter) *Handlers {
	if mem == nil {
		mem = memory.NewFormatter(nil, memory.Options{})
	}
	return &Handlers{router: r, memory: mem}
}

// RouteQuery handles the route_query tool
func (h *Handlers) RouteQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	hasAttachment := request.GetBool("has_attachment", false)

	var trip *models.TripContext
	status := request.GetString("trip_status", "")
	destinations := request.GetStringSlice("destinations", nil)
	start := request.GetString("start_date", "")
	end := request.GetString("end_date", "")
	if status != "" || len(destinations) > 0 || start != "" || end != "" {
		trip = &models.TripContext{
			Status:       status,
			Destinations: destinations,
			StartDate:    start,
			EndDate:      end,
		}
	}

	decision := h.router.Route(ctx, text, hasAttachment, trip)
	return jsonResult(decision)
}

// BuildPromptContext handles the build_prompt_context tool
func (h *Handlers) BuildPromptContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := sessionKey(request)
	query := request.GetString("query", "")
	includeSummary := request.GetBool("include_summary", true)

	block := h.memory.BuildPromptContext(ctx, key, query, includeSummary)

	return jsonResult(map[string]interface{}{
		"actor_id":          key.ActorID,
		"session_id":        key.SessionID,
		"memory_configured": h.memory.IsConfigured(),
		"context":           block,
	})
}

// RecordInteraction handles the record_interaction tool
func (h *Handlers) RecordInteraction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userMessage, err := request.RequireString("user_message")
	if err != nil {
		return mcp.NewToolResultError("user_message argument is required and must be a string"), nil
	}
	agentResponse, err := request.RequireString("agent_response")
	if err != nil {
		return mcp.NewToolResultError("agent_response argument is required and must be a string"), nil
	}
	key := sessionKey(request)

	h.memory.RecordInteraction(ctx, key, userMessage, agentResponse)

	return jsonResult(map[string]interface{}{
		"actor_id":   key.ActorID,
		"session_id": key.SessionID,
		"recorded":   h.memory.IsConfigured(),
	})
}

// GetRecentTurns handles the get_recent_turns tool
func (h *Handlers) GetRecentTurns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := sessionKey(request)
	limit := request.GetInt("limit", DefaultHistoryLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	turns, err := h.memory.RecentTurns(ctx, key, limit)
	if err != nil {
		if errors.Is(err, memory.ErrNotConfigured) {
			return mcp.NewToolResultError("memory is not configured (set MEMORY_ID)"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load turns: %v", err)), nil
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}

	return jsonResult(map[string]interface{}{
		"actor_id":   key.ActorID,
		"session_id": key.SessionID,
		"count":      len(turns),
		"turns":      turns,
	})
}

func sessionKey(request mcp.CallToolRequest) models.SessionKey {
	key := models.SessionKey{
		ActorID:   strings.TrimSpace(request.GetString("actor_id", "")),
		SessionID: strings.TrimSpace(request.GetString("session_id", "")),
	}
	if key.ActorID == "" {
		key.ActorID = agent.DefaultActorID
	}
	if key.SessionID == "" {
		key.SessionID = agent.DefaultSessionID
	}
	return key
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
