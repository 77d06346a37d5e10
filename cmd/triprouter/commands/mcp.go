// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents route queries and use session memory via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/triprouter/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the router as an MCP (Model Context Protocol) server over stdio,
giving LLM agents the route_query, build_prompt_context,
record_interaction and get_recent_turns tools.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  triprouter mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "triprouter": {
  #       "command": "triprouter",
  #       "args": ["mcp"],
  #       "env": {"MEMORY_ID": "travel"}
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	logger := a.Logger

	server, _ := mcp.NewServer(a.Router, a.Memory)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := a.Close(); err != nil {
			logger.Warn("error closing memory store", "error", err)
		}
		logger.Info("shutdown complete")

	case err := <-serverErr:
		_ = a.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
