// ABOUTME: Router turns a classification into a complete routing decision
// ABOUTME: Logs one line per routed query
package router

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/models"
)

// MinMemoryRunes is the trimmed length at which even trivial utterances
// consult memory.
const MinMemoryRunes = 5

const logInputRunes = 50

// Config contains the immutable configuration for a Router
type Config struct {
	Profiles        models.ProfileSet
	ClassifyTimeout time.Duration
	Patterns        *PatternMatcher
	Logger          *slog.Logger
}

// Router composes the classifier and the profile table into routing decisions.
// It holds no mutable state and is safe for concurrent use.
type Router struct {
	classifier *Classifier
	profiles   models.ProfileSet
	logger     *slog.Logger
}

// New creates a Router that classifies through invoker using the router profile
func New(invoker llm.Invoker, cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		classifier: NewClassifier(invoker, cfg.Profiles.Router.ID, cfg.Patterns, cfg.ClassifyTimeout, logger),
		profiles:   cfg.Profiles,
		logger:     logger,
	}
}

// Profiles returns the profile set the router selects from
func (r *Router) Profiles() models.ProfileSet {
	return r.profiles
}

// Classify exposes the classifier for callers that only need the label
func (r *Router) Classify(ctx context.Context, text string, hasAttachment bool, trip *models.TripContext) models.Classification {
	return r.classifier.Classify(ctx, text, hasAttachment, trip)
}

// Select maps a label to its profile
func (r *Router) Select(label models.QueryComplexity) models.ModelProfile {
	return r.profiles.Select(label)
}

// Route classifies text and returns the decision for the downstream call
func (r *Router) Route(ctx context.Context, text string, hasAttachment bool, trip *models.TripContext) models.RoutingDecision {
	start := time.Now()

	result := r.classifier.Classify(ctx, text, hasAttachment, trip)
	profile := r.profiles.Select(result.Label)

	decision := models.RoutingDecision{
		ModelID:         profile.ID,
		Complexity:      result.Label,
		Source:          result.Source,
		UseTools:        UseTools(result.Label),
		UseMemory:       UseMemory(text, result.Label),
		EnableCache:     true,
		CostInputPer1M:  profile.CostPerMillionInputTokens,
		CostOutputPer1M: profile.CostPerMillionOutputTokens,
	}
	decision.RoutingLatencyMs = time.Since(start).Milliseconds()

	r.logger.Info("query routed",
		"input", truncate(text, logInputRunes),
		"complexity", decision.Complexity,
		"source", decision.Source,
		"model", decision.ModelID,
		"latency_ms", decision.RoutingLatencyMs)

	return decision
}

// UseTools grants tool use only to labels that may need external actions
func UseTools(label models.QueryComplexity) bool {
	return label == models.Complex || label == models.Critical
}

// UseMemory skips memory only for very short trivial utterances
func UseMemory(text string, label models.QueryComplexity) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinMemoryRunes || label != models.Trivial
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
