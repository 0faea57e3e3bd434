package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Default base URLs for OpenAI-compatible providers.
var openAICompatibleBaseURLs = map[string]string{
	"openai":      "https://api.openai.com/v1",
	"openrouter":  "https://openrouter.ai/api/v1",
	"deepseek":    "https://api.deepseek.com",
	"siliconflow": "https://api.siliconflow.cn/v1",
	"zai":         "https://open.bigmodel.cn/api/paas/v4",
	"dashscope":   "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"ollama":      "http://localhost:11434/v1",
}

// IsOpenAICompatible reports whether provider speaks the OpenAI chat completions API.
func IsOpenAICompatible(provider string) bool {
	_, ok := openAICompatibleBaseURLs[provider]
	return ok
}

type openAIBackend struct {
	client   *openai.Client
	provider string
}

// NewOpenAIBackend creates a backend for any OpenAI-compatible provider.
// Unknown providers are accepted as long as a base URL is given.
func NewOpenAIBackend(cfg BackendConfig) (Backend, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAICompatibleBaseURLs[cfg.Provider]
	}
	if baseURL == "" {
		return nil, fmt.Errorf("provider %q needs a base URL", cfg.Provider)
	}
	if !IsOpenAICompatible(cfg.Provider) {
		slog.Info("Using generic OpenAI-compatible provider", "provider", cfg.Provider)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = cfg.HTTPClient
	if clientConfig.HTTPClient == nil {
		clientConfig.HTTPClient = newHTTPClient()
	}

	return &openAIBackend{
		client:   openai.NewClientWithConfig(clientConfig),
		provider: cfg.Provider,
	}, nil
}

func (b *openAIBackend) Chat(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    convertMessages(req.Messages),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", b.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case "system":
			role = openai.ChatMessageRoleSystem
		case "assistant":
			role = openai.ChatMessageRoleAssistant
		}
		out[i] = openai.ChatCompletionMessage{Role: role, Content: m.Content}
	}
	return out
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
