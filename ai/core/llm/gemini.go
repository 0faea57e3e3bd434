package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a backend for the Gemini API.
func NewGeminiBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiBackend{client: client}, nil
}

// Chat sends system messages as the system instruction and the rest as
// conversation turns.
func (b *geminiBackend) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var system []*genai.Part
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case "system":
			system = append(system, genai.NewPartFromText(m.Content))
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, "model"))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, "user"))
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = genai.Ptr(int32(req.MaxTokens))
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromParts(system, "user")
	}

	resp, err := b.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
