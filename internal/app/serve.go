// ABOUTME: Serve builds the application and runs the HTTP runtime
// ABOUTME: Shared by the server binary and the serve command
package app

import (
	"context"
	"os"

	"github.com/harper/triprouter/internal/config"
	"github.com/harper/triprouter/internal/server"
)

// Serve builds the app from cfg and runs the HTTP runtime until ctx ends
func Serve(ctx context.Context, cfg *config.Config) error {
	logger := cfg.NewLogger(os.Stderr)

	a, err := Build(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("error closing memory store", "error", err)
		}
	}()

	srv := server.New(a.Agent, server.Options{
		Addr:           cfg.HTTPAddr,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	return srv.Run(ctx)
}
