package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// BackendConfig holds the credentials for one provider.
type BackendConfig struct {
	Provider   string // openrouter, openai, deepseek, siliconflow, zai, dashscope, ollama, anthropic, gemini
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client // optional
}

// NewBackend creates the backend for cfg.Provider.
func NewBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	cfg.Provider = strings.ToLower(cfg.Provider)
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicBackend(cfg)
	case "gemini":
		return NewGeminiBackend(ctx, cfg)
	default:
		return NewOpenAIBackend(cfg)
	}
}

// NewBackends creates every configured backend, keyed by provider name.
// Providers without an API key (ollama excepted) or that fail to initialize
// are skipped; their models then fail as unavailable at call time.
func NewBackends(ctx context.Context, cfgs []BackendConfig) map[string]Backend {
	backends := make(map[string]Backend, len(cfgs))
	for _, cfg := range cfgs {
		provider := strings.ToLower(cfg.Provider)
		if cfg.APIKey == "" && provider != "ollama" {
			slog.Warn("LLM: provider has no API key, skipping", "provider", provider)
			continue
		}
		b, err := NewBackend(ctx, cfg)
		if err != nil {
			slog.Warn("LLM: failed to create provider backend", "provider", provider, "error", err)
			continue
		}
		backends[provider] = b
		slog.Info("LLM: provider backend initialized", "provider", provider)
	}
	return backends
}
