// ABOUTME: Classifier assigns a complexity label to one utterance
// ABOUTME: Never fails: any model problem yields the fallback classification
package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/models"
)

// DefaultClassifyTimeout bounds the classification call
const DefaultClassifyTimeout = 5 * time.Second

// Classifier assigns a complexity label to one utterance. It never fails:
// every error path yields the fallback classification.
type Classifier struct {
	invoker llm.Invoker
	modelID string
	matcher *PatternMatcher
	timeout time.Duration
	logger  *slog.Logger
}

// NewClassifier builds a classifier that calls modelID through invoker.
// A nil invoker means no classification model is available; every
// non-short-circuited utterance then falls back.
func NewClassifier(invoker llm.Invoker, modelID string, matcher *PatternMatcher, timeout time.Duration, logger *slog.Logger) *Classifier {
	if matcher == nil {
		matcher = DefaultPatternMatcher()
	}
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		invoker: invoker,
		modelID: modelID,
		matcher: matcher,
		timeout: timeout,
		logger:  logger,
	}
}

// Classify runs the attachment and pattern short-circuits, then a single
// model round-trip with no retry.
func (c *Classifier) Classify(ctx context.Context, text string, hasAttachment bool, trip *models.TripContext) models.Classification {
	if hasAttachment {
		return models.Classification{Label: models.Vision, Source: models.SourceAttachment}
	}

	if c.matcher.IsTrivial(text) {
		return models.Classification{Label: models.Trivial, Source: models.SourcePattern}
	}

	if c.invoker == nil {
		return c.fallback("no classification model configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.invoker.Invoke(ctx, c.modelID, BuildClassificationPrompt(text, trip))
	if err != nil {
		return c.fallback(err.Error())
	}

	result := models.ParseReply(reply)
	if result.IsFallback() {
		c.logger.Warn("classification fell back",
			"reason", result.Reason,
			"fallback", result.Label)
	}
	return result
}

func (c *Classifier) fallback(reason string) models.Classification {
	result := models.Fallback(reason)
	c.logger.Warn("classification fell back",
		"reason", reason,
		"fallback", result.Label)
	return result
}
