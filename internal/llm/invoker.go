// ABOUTME: Narrow model invocation interfaces shared by the router, agent and summarizer
// ABOUTME: Any backend that can turn (model id, prompt) into text satisfies Invoker
package llm

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when a model answers with no choices or no text
var ErrEmptyReply = errors.New("model returned an empty reply")

// Invoker sends a single prompt to the named model and returns its reply text
type Invoker interface {
	Invoke(ctx context.Context, modelID, prompt string) (string, error)
}

// ImageInvoker is implemented by backends that can attach an image to the prompt
type ImageInvoker interface {
	Invoker
	InvokeWithImage(ctx context.Context, modelID, prompt, imageURL string) (string, error)
}

// InvokerFunc adapts a plain function to Invoker
type InvokerFunc func(ctx context.Context, modelID, prompt string) (string, error)

// Invoke calls f
func (f InvokerFunc) Invoke(ctx context.Context, modelID, prompt string) (string, error) {
	return f(ctx, modelID, prompt)
}
