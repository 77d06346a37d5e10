// ABOUTME: Builds the router, memory and agent from configuration
// ABOUTME: Every binary goes through Build so the CLI, server and MCP surfaces share one wiring
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/harper/triprouter/internal/agent"
	"github.com/harper/triprouter/internal/charm"
	"github.com/harper/triprouter/internal/config"
	"github.com/harper/triprouter/internal/llm"
	"github.com/harper/triprouter/internal/memory"
	"github.com/harper/triprouter/internal/router"
	"github.com/harper/triprouter/internal/storage/sqlite"
)

// App holds the wired components and the resources they own
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Router     *router.Router
	Memory     *memory.Formatter
	Agent      *agent.Service
	Summarizer *memory.Summarizer

	// Backend handles, nil unless that backend is in use
	SQLite *sqlite.Storage
	Charm  *charm.Client

	closers []func() error
}

// Build wires the application from cfg. Missing model credentials or an
// unset memory id are not errors: the affected features degrade.
func Build(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	var (
		classifierInvoker llm.Invoker
		agentInvoker      llm.Invoker
	)
	if cfg.ModelsConfigured() {
		clientCfg := llm.DefaultConfig(cfg.OpenAIKey)
		clientCfg.BaseURL = cfg.OpenAIBaseURL
		clientCfg.Timeout = cfg.Timeout
		client, err := llm.NewOpenAIClient(clientCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create model client: %w", err)
		}
		// one shot for classification; its own timeout bounds it
		classifierInvoker = client
		agentInvoker = llm.NewRetrying(client, cfg.MaxRetries, cfg.RetryDelay, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, classification falls back and the agent answers with routing summaries")
	}

	a.Router = router.New(classifierInvoker, router.Config{
		Profiles:        cfg.Profiles(),
		ClassifyTimeout: cfg.ClassifyTimeout,
		Logger:          logger,
	})

	store, err := a.openStore()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	opts := memory.Options{
		TopK:    cfg.MemoryTopK,
		Timeout: cfg.MemoryTimeout,
		Logger:  logger,
	}
	if cfg.MemoryScorer == config.ScorerKeyword {
		opts.Scorer = memory.KeywordOverlapScorer{}
	}
	a.Memory = memory.NewFormatter(store, opts)

	a.Agent = agent.NewService(a.Router, a.Memory, agentInvoker, logger)

	if store != nil && agentInvoker != nil {
		s, err := memory.NewSummarizer(store, agentInvoker, cfg.ChatModel, logger)
		if err != nil {
			logger.Debug("summaries disabled", "error", err)
		} else {
			a.Summarizer = s
		}
	}

	return a, nil
}

// openStore returns nil when memory is not configured
func (a *App) openStore() (memory.Store, error) {
	cfg := a.Config
	if !cfg.MemoryConfigured() {
		a.Logger.Info("MEMORY_ID not set, running without conversation memory")
		return nil, nil
	}

	switch cfg.MemoryBackend {
	case config.BackendSQLite:
		var (
			s   *sqlite.Storage
			err error
		)
		if cfg.MemoryDBPath != "" {
			s, err = sqlite.NewStorageWithPath(cfg.MemoryDBPath, cfg.MemoryID)
		} else {
			s, err = sqlite.NewStorage(cfg.MemoryID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite memory: %w", err)
		}
		a.SQLite = s
		a.closers = append(a.closers, s.Close)
		return s, nil

	case config.BackendCharm:
		client, err := charm.NewClient(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open charm memory: %w", err)
		}
		a.Charm = client
		a.closers = append(a.closers, client.Close)
		return charm.NewStore(client, cfg.MemoryID), nil

	case config.BackendMemory:
		return memory.NewInMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown memory backend %q", cfg.MemoryBackend)
}

// Close releases backend resources in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
