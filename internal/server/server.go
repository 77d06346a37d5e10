// ABOUTME: HTTP runtime entrypoint serving /invocations and /ping on echo
// ABOUTME: Identity comes from the request body; actors are rate limited independently
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// Options configures the server
type Options struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server wraps an echo instance bound to one agent
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// New builds the echo server with logging, recovery and request ids
func New(a Agent, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	var limiter *RateLimiter
	if opts.RateLimitRPS > 0 && opts.RateLimitBurst > 0 {
		limiter = NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	}
	NewHandler(a, limiter, logger).RegisterRoutes(e)

	return &Server{echo: e, addr: opts.Addr, logger: logger}
}

// Echo exposes the underlying router, mainly for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("runtime server listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down runtime server")
	return s.echo.Shutdown(shutdownCtx)
}
