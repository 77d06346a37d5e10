// ABOUTME: MCP tool definitions and registration for the query router
// ABOUTME: Exposes routing and session memory as four tools over any MCP transport
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/triprouter/internal/memory"
	"github.com/harper/triprouter/internal/router"
)

// ServerName and ServerVersion identify the MCP server
const (
	ServerName    = "Trip Router"
	ServerVersion = "0.1.0"
)

var sessionProperties = map[string]interface{}{
	"actor_id": map[string]interface{}{
		"type":        "string",
		"description": "User identifier (default: user)",
	},
	"session_id": map[string]interface{}{
		"type":        "string",
		"description": "Conversation identifier (default: default)",
	},
}

func withSession(props map[string]interface{}) map[string]interface{} {
	for k, v := range sessionProperties {
		props[k] = v
	}
	return props
}

// NewServer creates an MCP server with every tool registered
func NewServer(r *router.Router, mem *memory.Formatter) (*mcpserver.MCPServer, *Handlers) {
	server := mcpserver.NewMCPServer(ServerName, ServerVersion)
	return server, RegisterTools(server, r, mem)
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, r *router.Router, mem *memory.Formatter) *Handlers {
	handlers := NewHandlers(r, mem)

	// 1. route_query - classify a message and pick a model
	server.AddTool(mcp.Tool{
		Name:        "route_query",
		Description: "Classify a user message (TRIVIAL, INFORMATIVE, COMPLEX, VISION, CRITICAL) and return the model, tool and memory decision for it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "User message to route",
				},
				"has_attachment": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the message carries an image or document",
					"default":     false,
				},
				"trip_status": map[string]interface{}{
					"type":        "string",
					"description": "Optional trip status, e.g. PLANNING",
				},
				"destinations": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional trip destinations",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"description": "Optional trip start date",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"description": "Optional trip end date",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.RouteQuery)

	// 2. build_prompt_context - render session memory for a prompt
	server.AddTool(mcp.Tool{
		Name:        "build_prompt_context",
		Description: "Render the session summary and recent turns as a prompt block. Returns an empty context when memory is not configured.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: withSession(map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Current user message, used for relevance scoring",
				},
				"include_summary": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the session summary (default: true)",
					"default":     true,
				},
			}),
		},
	}, handlers.BuildPromptContext)

	// 3. record_interaction - append a user/assistant pair
	server.AddTool(mcp.Tool{
		Name:        "record_interaction",
		Description: "Append a user message and the assistant reply to session memory. Failures are reported but never raised.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: withSession(map[string]interface{}{
				"user_message": map[string]interface{}{
					"type":        "string",
					"description": "What the user said",
				},
				"agent_response": map[string]interface{}{
					"type":        "string",
					"description": "What the assistant answered",
				},
			}),
			Required: []string{"user_message", "agent_response"},
		},
	}, handlers.RecordInteraction)

	// 4. get_recent_turns - raw session history
	server.AddTool(mcp.Tool{
		Name:        "get_recent_turns",
		Description: "Return the most recent stored messages of a session, oldest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: withSession(map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of messages to return (default: 10)",
					"default":     10,
				},
			}),
		},
	}, handlers.GetRecentTurns)

	return handlers
}
