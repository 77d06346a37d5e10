// ABOUTME: Service runs one assistant turn: route, load context, call the chosen model, record
// ABOUTME: Only the downstream model call can fail a request; memory problems degrade silently
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/memory"
	"github.com/harper/triprouter/internal/models"
	"github.com/harper/triprouter/internal/router"
)

// ErrModelCall wraps failures of the downstream model call
var ErrModelCall = errors.New("model call failed")

// Service is the caller side of the router
type Service struct {
	router  *router.Router
	memory  *memory.Formatter
	invoker llm.Invoker
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the pipeline; a nil invoker answers with the routing summary
func NewService(r *router.Router, mem *memory.Formatter, invoker llm.Invoker, logger *slog.Logger) *Service {
	if mem == nil {
		mem = memory.NewFormatter(nil, memory.Options{Logger: logger})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		router:  r,
		memory:  mem,
		invoker: invoker,
		logger:  logger,
		now:     time.Now,
	}
}

// Router returns the router in use
func (s *Service) Router() *router.Router {
	return s.router
}

// Memory returns the memory formatter in use
func (s *Service) Memory() *memory.Formatter {
	return s.memory
}

// Invoke answers one request
func (s *Service) Invoke(ctx context.Context, req Request) (*Response, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("processing request",
		"session_id", req.SessionID,
		"actor_id", req.ActorID,
		"has_image", req.HasAttachment())

	decision := s.router.Route(ctx, req.Prompt, req.HasAttachment(), req.TripContext)

	var memoryContext string
	if decision.UseMemory {
		memoryContext = s.memory.BuildPromptContext(ctx, req.SessionKey(), req.Prompt, true)
	}

	reply, err := s.answer(ctx, &req, decision, memoryContext)
	if err != nil {
		s.logger.Error("model call failed",
			"model", decision.ModelID,
			"session_id", req.SessionID,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	s.memory.RecordInteraction(ctx, req.SessionKey(), req.Prompt, reply)

	return &Response{
		Response: reply,
		Metadata: s.metadata(&req, decision),
	}, nil
}

func (s *Service) answer(ctx context.Context, req *Request, decision models.RoutingDecision, memoryContext string) (string, error) {
	if s.invoker == nil {
		return routingReply(req, decision), nil
	}

	prompt := BuildPrompt(req, memoryContext)

	if req.ImageURL != "" && decision.Complexity == models.Vision {
		if img, ok := s.invoker.(llm.ImageInvoker); ok {
			return img.InvokeWithImage(ctx, decision.ModelID, prompt, req.ImageURL)
		}
		s.logger.Warn("model client cannot attach images, sending text only", "model", decision.ModelID)
	}
	return s.invoker.Invoke(ctx, decision.ModelID, prompt)
}

func (s *Service) metadata(req *Request, decision models.RoutingDecision) Metadata {
	md := Metadata{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		SessionID: req.SessionID,
		ActorID:   req.ActorID,
		Routing:   decision.Summary(),
	}
	if req.TripID != "" {
		tripID := req.TripID
		md.TripID = &tripID
	}
	return md
}
