// ABOUTME: Fake invoker shared by router tests
// ABOUTME: Counts calls and can block, fail or return a fixed reply
package router

import (
	"context"
	"sync"

	"github.com/harper/triprouter/internal/models"
)

// countingInvoker records every call and replies with a fixed answer
type countingInvoker struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	models  []string
	prompts []string
	block   bool
}

func (f *countingInvoker) Invoke(ctx context.Context, modelID, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.models = append(f.models, modelID)
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *countingInvoker) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestRouter(inv *countingInvoker) *Router {
	cfg := Config{Profiles: models.DefaultProfiles()}
	if inv == nil {
		return New(nil, cfg)
	}
	return New(inv, cfg)
}
