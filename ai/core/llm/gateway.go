package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Gateway failure classes. They only travel inside Result.Err for logging
// and metrics; the gateway never returns an error to its caller.
var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderTimeout     = errors.New("provider timeout")
	ErrRateLimited         = errors.New("provider rate limited")
	ErrEmptyResponse       = errors.New("empty response from provider")
)

// DefaultAttemptTimeout bounds a single model call when no timeout is configured.
const DefaultAttemptTimeout = 30 * time.Second

// Attempt is one try against one model. It is built per call and discarded afterwards.
type Attempt struct {
	Model       ModelRef
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Result is the provider-agnostic outcome of an Attempt.
type Result struct {
	Text string
	OK   bool
	Err  error
}

// Gateway executes a single model call. Implementations must not panic or
// retry; every failure is reported as Result{OK: false}.
type Gateway interface {
	Complete(ctx context.Context, attempt Attempt) Result
}

// ChatRequest is the provider contract: model, messages, max_tokens and temperature.
type ChatRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Backend talks to one provider API and returns the first choice's content.
type Backend interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// GatewayConfig configures a RemoteGateway.
type GatewayConfig struct {
	// Timeout bounds each attempt (default: DefaultAttemptTimeout).
	Timeout time.Duration
	// RequestsPerSecond limits calls per provider. Zero disables limiting.
	RequestsPerSecond float64
	// Burst is the limiter burst size (default: 1).
	Burst int
}

// RemoteGateway routes attempts to the backend registered for the model's provider.
type RemoteGateway struct {
	backends map[string]Backend
	limiters map[string]*rate.Limiter
	timeout  time.Duration
}

// NewGateway creates a gateway over the given provider backends.
func NewGateway(cfg GatewayConfig, backends map[string]Backend) *RemoteGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	g := &RemoteGateway{
		backends: make(map[string]Backend, len(backends)),
		limiters: make(map[string]*rate.Limiter, len(backends)),
		timeout:  timeout,
	}
	for name, b := range backends {
		name = strings.ToLower(name)
		g.backends[name] = b
		if cfg.RequestsPerSecond > 0 {
			g.limiters[name] = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
		}
	}
	return g
}

// Providers returns the names of the registered providers.
func (g *RemoteGateway) Providers() []string {
	names := make([]string, 0, len(g.backends))
	for name := range g.backends {
		names = append(names, name)
	}
	return names
}

// Complete runs one attempt. It never panics and never retries.
func (g *RemoteGateway) Complete(ctx context.Context, attempt Attempt) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("LLM: backend panicked", "model", attempt.Model.String(), "panic", r)
			result = Result{Err: fmt.Errorf("%w: panic: %v", ErrProviderUnavailable, r)}
		}
	}()

	backend, ok := g.backends[attempt.Model.Provider]
	if !ok {
		return Result{Err: fmt.Errorf("%w: no backend for provider %q", ErrProviderUnavailable, attempt.Model.Provider)}
	}
	if limiter, ok := g.limiters[attempt.Model.Provider]; ok && !limiter.Allow() {
		return Result{Err: fmt.Errorf("%w: %s", ErrRateLimited, attempt.Model.Provider)}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	slog.Debug("LLM: Chat request",
		"model", attempt.Model.String(),
		"messages_count", len(attempt.Messages),
		"max_tokens", attempt.MaxTokens,
	)

	startTime := time.Now()
	text, err := backend.Chat(callCtx, ChatRequest{
		Model:       attempt.Model.Name,
		Messages:    attempt.Messages,
		MaxTokens:   attempt.MaxTokens,
		Temperature: attempt.Temperature,
	})
	duration := time.Since(startTime)

	if err != nil {
		return Result{Err: classify(callCtx, err)}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Err: ErrEmptyResponse}
	}

	slog.Debug("LLM: Chat response received",
		"model", attempt.Model.String(),
		"content_length", len(text),
		"duration_ms", duration.Milliseconds(),
	)
	return Result{Text: text, OK: true}
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
