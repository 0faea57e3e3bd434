package pipeline

import (
	"fmt"

	"github.com/hrygo/complaintdesk/ai/configloader"
	"github.com/hrygo/complaintdesk/ai/core/llm"
)

// Operation names, used in logs, metrics, YAML keys and env overrides.
const (
	OpMetadata       = "metadata"
	OpDescription    = "enhance_description"
	OpDraft          = "draft_response"
	OpEnhance        = "enhance_response"
	OpQuickQuestions = "quick_questions"
)

// Operations lists every operation name.
func Operations() []string {
	return []string{OpMetadata, OpDescription, OpDraft, OpEnhance, OpQuickQuestions}
}

// OperationsFile is the optional override file read by LoadConfig.
const OperationsFile = "operations.yaml"

// OperationProfile is the per-operation model list and sampling parameters.
// Models are "provider:model" references tried best-first.
type OperationProfile struct {
	Models      []string `yaml:"models"`
	Temperature float32  `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

// Config holds one profile per operation.
type Config struct {
	Metadata       OperationProfile `yaml:"metadata"`
	Description    OperationProfile `yaml:"enhance_description"`
	Draft          OperationProfile `yaml:"draft_response"`
	Enhance        OperationProfile `yaml:"enhance_response"`
	QuickQuestions OperationProfile `yaml:"quick_questions"`
}

// Free-tier OpenRouter models, best first.
const (
	llama70B   = "openrouter:meta-llama/llama-3.3-70b-instruct:free"
	gemma27B   = "openrouter:google/gemma-3-27b-it:free"
	mistral24B = "openrouter:mistralai/mistral-small-3.1-24b-instruct:free"
	qwen7B     = "openrouter:qwen/qwen-2.5-7b-instruct:free"
)

// DefaultConfig returns the compiled-in profiles.
func DefaultConfig() Config {
	return Config{
		Metadata: OperationProfile{
			Models:      []string{llama70B, mistral24B, gemma27B, qwen7B},
			Temperature: 0.1,
			MaxTokens:   100,
		},
		Description: OperationProfile{
			Models:      []string{llama70B, mistral24B, gemma27B},
			Temperature: 0.7,
			MaxTokens:   500,
		},
		Draft: OperationProfile{
			Models:      []string{llama70B, mistral24B, gemma27B},
			Temperature: 0.7,
			MaxTokens:   600,
		},
		Enhance: OperationProfile{
			Models:      []string{llama70B, mistral24B, gemma27B},
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		QuickQuestions: OperationProfile{
			Models:      []string{llama70B, gemma27B},
			Temperature: 0.8,
			MaxTokens:   300,
		},
	}
}

// LoadConfig returns DefaultConfig overlaid with dir/operations.yaml when the
// file exists. Fields left empty in the file keep their defaults.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	if dir == "" {
		return cfg, nil
	}

	var overrides map[string]profileOverride
	found, err := configloader.NewLoader(dir).LoadOptional(OperationsFile, &overrides)
	if err != nil {
		return cfg, fmt.Errorf("load operation profiles: %w", err)
	}
	if !found {
		return cfg, nil
	}

	for op, o := range overrides {
		p := cfg.profile(op)
		if p == nil {
			return cfg, fmt.Errorf("%s: unknown operation %q", OperationsFile, op)
		}
		if err := p.merge(o); err != nil {
			return cfg, fmt.Errorf("%s: %s: %w", OperationsFile, op, err)
		}
	}
	return cfg, cfg.Validate()
}

// profileOverride is one operation's entry in operations.yaml. Pointers tell
// an explicit zero apart from a missing key.
type profileOverride struct {
	Models      []string `yaml:"models"`
	Temperature *float32 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`
}

// SetModels replaces the model list of one operation.
func (c *Config) SetModels(operation string, models []string) error {
	p := c.profile(operation)
	if p == nil {
		return fmt.Errorf("unknown operation %q", operation)
	}
	p.Models = append([]string(nil), models...)
	return nil
}

// Validate checks every model reference.
func (c *Config) Validate() error {
	for _, op := range Operations() {
		if _, err := llm.ParseModelRefs(c.profile(op).Models); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (c *Config) profile(operation string) *OperationProfile {
	switch operation {
	case OpMetadata:
		return &c.Metadata
	case OpDescription:
		return &c.Description
	case OpDraft:
		return &c.Draft
	case OpEnhance:
		return &c.Enhance
	case OpQuickQuestions:
		return &c.QuickQuestions
	default:
		return nil
	}
}

func (p *OperationProfile) merge(o profileOverride) error {
	if len(o.Models) > 0 {
		p.Models = o.Models
	}
	if o.Temperature != nil {
		if *o.Temperature < 0 {
			return fmt.Errorf("temperature %v is negative", *o.Temperature)
		}
		p.Temperature = *o.Temperature
	}
	if o.MaxTokens != nil {
		if *o.MaxTokens <= 0 {
			return fmt.Errorf("max_tokens %d must be positive", *o.MaxTokens)
		}
		p.MaxTokens = *o.MaxTokens
	}
	return nil
}
