// ABOUTME: Retrying decorator for Invoker using exponential backoff
// ABOUTME: Used for downstream agent calls; the classifier deliberately calls the bare client
package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/harper/triprouter/internal/util"
)

// Retrying retries failed invocations of the wrapped Invoker
type Retrying struct {
	next       Invoker
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewRetrying wraps next so each call is attempted up to maxRetries+1 times
func NewRetrying(next Invoker, maxRetries int, retryDelay time.Duration, logger *slog.Logger) *Retrying {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrying{next: next, maxRetries: maxRetries, retryDelay: retryDelay, logger: logger}
}

// Invoke calls the wrapped invoker with retries
func (r *Retrying) Invoke(ctx context.Context, modelID, prompt string) (string, error) {
	var reply string
	err := util.Retry(ctx, r.maxRetries, r.retryDelay, func(ctx context.Context) error {
		var err error
		reply, err = r.next.Invoke(ctx, modelID, prompt)
		if err != nil {
			r.logger.Debug("model call failed", "model", modelID, "error", err)
		}
		return err
	})
	return reply, err
}

// InvokeWithImage calls the wrapped invoker's image path with retries.
// A text-only backend gets the prompt without the image.
func (r *Retrying) InvokeWithImage(ctx context.Context, modelID, prompt, imageURL string) (string, error) {
	img, ok := r.next.(ImageInvoker)
	if !ok {
		r.logger.Warn("model client cannot attach images, sending text only", "model", modelID)
		return r.Invoke(ctx, modelID, prompt)
	}
	var reply string
	err := util.Retry(ctx, r.maxRetries, r.retryDelay, func(ctx context.Context) error {
		var err error
		reply, err = img.InvokeWithImage(ctx, modelID, prompt, imageURL)
		return err
	})
	return reply, err
}

var _ ImageInvoker = (*Retrying)(nil)
