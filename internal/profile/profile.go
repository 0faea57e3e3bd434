package profile

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/complaintdesk/ai/core/llm"
	"github.com/hrygo/complaintdesk/ai/pipeline"
)

const envPrefix = "COMPLAINTDESK_"

// Profile is configuration to start the server and the AI pipeline.
type Profile struct {
	// Server
	Mode    string
	Addr    string
	Port    int
	Version string

	// Provider credentials, keyed by provider name.
	Providers map[string]ProviderSettings

	// Per-attempt timeout in seconds (default: 30)
	AITimeout int
	// Per-provider rate limit; zero disables limiting.
	AIRequestsPerSecond float64
	AIRateBurst         int

	// Directory holding operations.yaml (optional)
	AIConfigDir string
	// Model list overrides from COMPLAINTDESK_AI_<OPERATION>_MODELS
	OperationModels map[string][]string

	// Quick question cache; zero TTL disables it.
	QuestionCacheTTL time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
}

// ProviderSettings holds one provider's credentials.
type ProviderSettings struct {
	APIKey  string
	BaseURL string
}

// Provider default base URLs. Empty means the SDK default.
var providerDefaults = map[string]string{
	"openrouter":  "https://openrouter.ai/api/v1",
	"openai":      "https://api.openai.com/v1",
	"deepseek":    "https://api.deepseek.com",
	"siliconflow": "https://api.siliconflow.cn/v1",
	"zai":         "https://open.bigmodel.cn/api/paas/v4",
	"dashscope":   "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"ollama":      "http://localhost:11434/v1",
	"anthropic":   "",
	"gemini":      "",
}

// KnownProviders returns the provider names read from the environment.
func KnownProviders() []string {
	return []string{"openrouter", "openai", "deepseek", "siliconflow", "zai", "dashscope", "ollama", "anthropic", "gemini"}
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled reports whether any hosted provider has an API key. Without one
// only a local ollama can answer and most requests end in local fallback.
func (p *Profile) IsAIEnabled() bool {
	for _, s := range p.Providers {
		if s.APIKey != "" {
			return true
		}
	}
	return false
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		slog.Warn("Ignoring invalid number setting", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("Ignoring invalid duration setting", "key", key, "value", value)
	}
	return defaultValue
}

// OperationModelsEnv returns the environment variable that overrides the
// model list of operation, e.g. COMPLAINTDESK_AI_METADATA_MODELS.
func OperationModelsEnv(operation string) string {
	return envPrefix + "AI_" + strings.ToUpper(operation) + "_MODELS"
}

// FromEnv loads AI configuration from environment variables.
func (p *Profile) FromEnv() {
	p.Providers = make(map[string]ProviderSettings, len(providerDefaults))
	for _, name := range KnownProviders() {
		key := envPrefix + "AI_" + strings.ToUpper(name)
		p.Providers[name] = ProviderSettings{
			APIKey:  getEnvOrDefault(key+"_API_KEY", ""),
			BaseURL: getEnvOrDefault(key+"_BASE_URL", providerDefaults[name]),
		}
	}

	p.AITimeout = getEnvOrDefaultInt(envPrefix+"AI_TIMEOUT_SECONDS", 30)
	p.AIRequestsPerSecond = getEnvOrDefaultFloat(envPrefix+"AI_RATE_LIMIT_RPS", 0)
	p.AIRateBurst = getEnvOrDefaultInt(envPrefix+"AI_RATE_LIMIT_BURST", 1)
	p.AIConfigDir = getEnvOrDefault(envPrefix+"AI_CONFIG_DIR", "")

	p.OperationModels = make(map[string][]string)
	for _, op := range pipeline.Operations() {
		if value := os.Getenv(OperationModelsEnv(op)); value != "" {
			p.OperationModels[op] = splitList(value)
		}
	}

	p.QuestionCacheTTL = getEnvOrDefaultDuration(envPrefix+"AI_QUESTION_CACHE_TTL", 0)
	p.RedisAddr = strings.TrimPrefix(getEnvOrDefault(envPrefix+"REDIS_ADDR", ""), "redis://")
	p.RedisPassword = getEnvOrDefault(envPrefix+"REDIS_PASSWORD", "")
	p.RedisDB = getEnvOrDefaultInt(envPrefix+"REDIS_DB", 0)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BackendConfigs returns one entry per configured provider, in KnownProviders order.
func (p *Profile) BackendConfigs() []llm.BackendConfig {
	cfgs := make([]llm.BackendConfig, 0, len(p.Providers))
	for _, name := range KnownProviders() {
		s, ok := p.Providers[name]
		if !ok {
			continue
		}
		cfgs = append(cfgs, llm.BackendConfig{Provider: name, APIKey: s.APIKey, BaseURL: s.BaseURL})
	}
	return cfgs
}

// GatewayConfig returns the gateway settings.
func (p *Profile) GatewayConfig() llm.GatewayConfig {
	return llm.GatewayConfig{
		Timeout:           time.Duration(p.AITimeout) * time.Second,
		RequestsPerSecond: p.AIRequestsPerSecond,
		Burst:             p.AIRateBurst,
	}
}

// PipelineConfig loads operation profiles and applies the env model overrides.
func (p *Profile) PipelineConfig() (pipeline.Config, error) {
	cfg, err := pipeline.LoadConfig(p.AIConfigDir)
	if err != nil {
		return cfg, errors.Wrap(err, "load pipeline config")
	}
	for op, models := range p.OperationModels {
		if err := cfg.SetModels(op, models); err != nil {
			return cfg, errors.Wrapf(err, "override %s", OperationModelsEnv(op))
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid model list")
	}
	return cfg, nil
}

// Validate normalizes the mode and checks numeric settings and model references.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.AITimeout <= 0 {
		return errors.Errorf("invalid AI timeout %ds: must be positive", p.AITimeout)
	}
	if p.AIRequestsPerSecond < 0 {
		return errors.Errorf("invalid AI rate limit %v: must not be negative", p.AIRequestsPerSecond)
	}
	if p.QuestionCacheTTL < 0 {
		return errors.Errorf("invalid question cache TTL %s", p.QuestionCacheTTL)
	}

	for op, models := range p.OperationModels {
		if _, err := llm.ParseModelRefs(models); err != nil {
			return errors.Wrapf(err, "invalid %s", OperationModelsEnv(op))
		}
	}

	if p.RedisAddr != "" && p.QuestionCacheTTL == 0 {
		slog.Warn("Redis address set but question cache TTL is zero; cache disabled", "redis_addr", p.RedisAddr)
	}
	return nil
}
