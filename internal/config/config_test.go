// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing, validation and logger construction
package config

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/harper/triprouter/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.RouterModel != models.DefaultRouterModel {
		t.Errorf("RouterModel = %s, want %s", cfg.RouterModel, models.DefaultRouterModel)
	}
	if cfg.ChatModel != models.DefaultChatModel {
		t.Errorf("ChatModel = %s, want %s", cfg.ChatModel, models.DefaultChatModel)
	}
	if cfg.ClassifyTimeout != 5*time.Second {
		t.Errorf("ClassifyTimeout = %v, want 5s", cfg.ClassifyTimeout)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.MemoryTopK != 5 {
		t.Errorf("MemoryTopK = %d, want 5", cfg.MemoryTopK)
	}
	if cfg.MemoryBackend != BackendSQLite {
		t.Errorf("MemoryBackend = %s, want sqlite", cfg.MemoryBackend)
	}
	if cfg.MemoryConfigured() {
		t.Error("MemoryConfigured() = true with no MEMORY_ID")
	}
	if cfg.ModelsConfigured() {
		t.Error("ModelsConfigured() = true with no OPENAI_API_KEY")
	}
	if cfg.CharmDBName != "triprouter" {
		t.Errorf("CharmDBName = %s, want triprouter", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %s, want :8080", cfg.HTTPAddr)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:4000/v1")
	t.Setenv("PLANNING_MODEL", "gpt-4o")
	t.Setenv("CLASSIFY_TIMEOUT", "2s")
	t.Setenv("OPENAI_MAX_RETRIES", "5")
	t.Setenv("MEMORY_ID", "n-agent-memory-1234567890")
	t.Setenv("MEMORY_BACKEND", "CHARM")
	t.Setenv("MEMORY_TOP_K", "8")
	t.Setenv("CHARM_AUTO_SYNC", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAIKey != "test-key" || !cfg.ModelsConfigured() {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.OpenAIBaseURL != "http://localhost:4000/v1" {
		t.Errorf("OpenAIBaseURL = %s", cfg.OpenAIBaseURL)
	}
	if got := cfg.Profiles().Planning.ID; got != "gpt-4o" {
		t.Errorf("Profiles().Planning.ID = %s, want gpt-4o", got)
	}
	if cfg.ClassifyTimeout != 2*time.Second {
		t.Errorf("ClassifyTimeout = %v, want 2s", cfg.ClassifyTimeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if !cfg.MemoryConfigured() {
		t.Error("MemoryConfigured() = false with MEMORY_ID set")
	}
	if cfg.MemoryBackend != BackendCharm {
		t.Errorf("MemoryBackend = %s, want charm", cfg.MemoryBackend)
	}
	if cfg.MemoryTopK != 8 {
		t.Errorf("MemoryTopK = %d, want 8", cfg.MemoryTopK)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %f, want 2.5", cfg.RateLimitRPS)
	}
}

func TestLoad_AgentCoreMemoryFallback(t *testing.T) {
	os.Clearenv()
	t.Setenv("BEDROCK_AGENTCORE_MEMORY_ID", "legacy-memory-0123456789")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MemoryID != "legacy-memory-0123456789" {
		t.Errorf("MemoryID = %q, want the AgentCore fallback", cfg.MemoryID)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	os.Clearenv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return cfg
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"max retries too high", func(c *Config) { c.MaxRetries = 15 }},
		{"max retries negative", func(c *Config) { c.MaxRetries = -1 }},
		{"top k zero", func(c *Config) { c.MemoryTopK = 0 }},
		{"top k too high", func(c *Config) { c.MemoryTopK = 51 }},
		{"classify timeout", func(c *Config) { c.ClassifyTimeout = 0 }},
		{"memory timeout", func(c *Config) { c.MemoryTimeout = -time.Second }},
		{"unknown backend", func(c *Config) { c.MemoryBackend = "redis" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
		{"unknown scorer", func(c *Config) { c.MemoryScorer = "bm25" }},
		{"rate limit", func(c *Config) { c.RateLimitBurst = 0 }},
		{"empty model", func(c *Config) { c.VisionModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := validConfig(t)

	var buf bytes.Buffer
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON warn line, got %q", out)
	}

	if parseLevel("debug") != slog.LevelDebug || parseLevel("nonsense") != slog.LevelInfo {
		t.Error("parseLevel() mapping is wrong")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				t.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
