// ABOUTME: HTTP handlers for /invocations and /ping
// ABOUTME: Maps request and model failures to 400, 429, 502 and 500 responses
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harper/triprouter/internal/agent"
)

// Agent answers one invocation
type Agent interface {
	Invoke(ctx context.Context, req agent.Request) (*agent.Response, error)
}

// Handler serves the runtime contract
type Handler struct {
	agent   Agent
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewHandler creates a handler; a nil limiter disables rate limiting
func NewHandler(a Agent, limiter *RateLimiter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{agent: a, limiter: limiter, logger: logger}
}

// RegisterRoutes registers routes with the echo server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/invocations", h.Invocations)
	e.GET("/ping", h.Ping)
}

// Ping reports liveness
func (h *Handler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "Healthy"})
}

// Invocations runs the agent pipeline for one request body
func (h *Handler) Invocations(c echo.Context) error {
	var req agent.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if h.limiter != nil && !h.limiter.Allow(req.ActorID) {
		h.logger.Warn("rate limit exceeded", "actor_id", req.ActorID)
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
	}

	resp, err := h.agent.Invoke(c.Request().Context(), req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, resp)
	case errors.Is(err, agent.ErrEmptyPrompt):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, agent.ErrModelCall):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("invocation failed", "session_id", req.SessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
