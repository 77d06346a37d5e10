// ABOUTME: Centralized configuration for the query router
// ABOUTME: Loads from environment variables (and an optional .env) with validation and defaults
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harper/triprouter/internal/models"
	"github.com/joho/godotenv"
)

// Memory backends
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// Relevance scorers
const (
	ScorerStore   = "store"
	ScorerKeyword = "keyword"
)

// Config holds all configuration for the router
type Config struct {
	// Model endpoint settings
	OpenAIKey     string
	OpenAIBaseURL string
	RouterModel   string
	ChatModel     string
	PlanningModel string
	VisionModel   string

	// ClassifyTimeout bounds the single classification round-trip
	ClassifyTimeout time.Duration
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration

	// Memory settings; MemoryID == "" means memory is not configured
	MemoryID      string
	MemoryBackend string
	MemoryDBPath  string
	MemoryTopK    int
	MemoryTimeout time.Duration
	MemoryScorer  string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Runtime server settings
	HTTPAddr       string
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
}

// LoadDotEnv reads a .env file if one exists; a missing file is not an error
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		RouterModel:     getEnv("ROUTER_MODEL", models.DefaultRouterModel),
		ChatModel:       getEnv("CHAT_MODEL", models.DefaultChatModel),
		PlanningModel:   getEnv("PLANNING_MODEL", models.DefaultPlanningModel),
		VisionModel:     getEnv("VISION_MODEL", models.DefaultVisionModel),
		ClassifyTimeout: getEnvDuration("CLASSIFY_TIMEOUT", 5*time.Second),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		MemoryID:        getEnv("MEMORY_ID", os.Getenv("BEDROCK_AGENTCORE_MEMORY_ID")),
		MemoryBackend:   strings.ToLower(getEnv("MEMORY_BACKEND", BackendSQLite)),
		MemoryDBPath:    os.Getenv("MEMORY_DB_PATH"),
		MemoryTopK:      getEnvInt("MEMORY_TOP_K", 5),
		MemoryTimeout:   getEnvDuration("MEMORY_TIMEOUT", 3*time.Second),
		MemoryScorer:    strings.ToLower(getEnv("MEMORY_SCORER", ScorerStore)),
		CharmHost:       getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:     getEnv("CHARM_DB", "triprouter"),
		AutoSync:        getEnvBool("CHARM_AUTO_SYNC", true),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	return cfg, cfg.Validate()
}

// Validate rejects out-of-range values
func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.MemoryTopK < 1 || c.MemoryTopK > 50 {
		return fmt.Errorf("MEMORY_TOP_K must be 1-50, got %d", c.MemoryTopK)
	}
	if c.ClassifyTimeout <= 0 {
		return fmt.Errorf("CLASSIFY_TIMEOUT must be positive, got %v", c.ClassifyTimeout)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.MemoryTimeout <= 0 {
		return fmt.Errorf("MEMORY_TIMEOUT must be positive, got %v", c.MemoryTimeout)
	}
	switch c.MemoryBackend {
	case BackendSQLite, BackendCharm, BackendMemory:
	default:
		return fmt.Errorf("MEMORY_BACKEND must be one of sqlite, charm, memory; got %q", c.MemoryBackend)
	}
	switch c.MemoryScorer {
	case ScorerStore, ScorerKeyword:
	default:
		return fmt.Errorf("MEMORY_SCORER must be store or keyword, got %q", c.MemoryScorer)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %.2f rps burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return c.Profiles().Validate()
}

// MemoryConfigured reports whether a memory resource is set for this deployment
func (c *Config) MemoryConfigured() bool {
	return strings.TrimSpace(c.MemoryID) != ""
}

// ModelsConfigured reports whether model calls can be made at all
func (c *Config) ModelsConfigured() bool {
	return c.OpenAIKey != ""
}

// Profiles builds the immutable profile set, applying model id overrides
func (c *Config) Profiles() models.ProfileSet {
	p := models.DefaultProfiles()
	p.Router.ID = c.RouterModel
	p.Chat.ID = c.ChatModel
	p.Planning.ID = c.PlanningModel
	p.Vision.ID = c.VisionModel
	return p
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
