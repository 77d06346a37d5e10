// ABOUTME: Serve command starts the HTTP runtime
// ABOUTME: Exposes POST /invocations and GET /ping until interrupted
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/triprouter/internal/app"
	"github.com/harper/triprouter/internal/config"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP runtime",
		Long: `Start the HTTP runtime.

POST /invocations takes {"prompt", "image_url", "actor_id",
"session_id", "trip_id", "trip_context"} and returns the answer
with routing metadata. GET /ping answers {"status":"Healthy"}.`,
		Args: cobra.NoArgs,
		RunE: runServe,
		Example: `  # Listen on the default HTTP_ADDR (:8080)
  triprouter serve

  # Custom address
  triprouter serve --addr 127.0.0.1:9000`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Serve(ctx, cfg)
}
