package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrygo/complaintdesk/ai/cache"
	"github.com/hrygo/complaintdesk/ai/core/llm"
	"github.com/hrygo/complaintdesk/ai/fallback"
	"github.com/hrygo/complaintdesk/ai/metrics"
	"github.com/hrygo/complaintdesk/ai/pipeline"
	"github.com/hrygo/complaintdesk/internal/profile"
)

const redisPingTimeout = 3 * time.Second

// app holds the wired pipeline and the resources to release on exit.
type app struct {
	Service  *pipeline.Service
	Exporter *metrics.PrometheusExporter

	closers []io.Closer
}

func newApp(ctx context.Context, p *profile.Profile) (*app, error) {
	cfg, err := p.PipelineConfig()
	if err != nil {
		return nil, err
	}

	backends := llm.NewBackends(ctx, p.BackendConfigs())
	gateway := llm.NewGateway(p.GatewayConfig(), backends)
	slog.Info("AI gateway ready", "providers", gateway.Providers())

	a := &app{Exporter: metrics.NewPrometheusExporter(metrics.DefaultConfig())}

	var opts []pipeline.Option
	if p.QuestionCacheTTL > 0 {
		store := a.questionStore(ctx, p)
		opts = append(opts, pipeline.WithQuestionCache(cache.Observed(store, a.Exporter), p.QuestionCacheTTL))
	}

	a.Service, err = pipeline.NewService(fallback.New(gateway, a.Exporter), cfg, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return a, nil
}

// questionStore returns Redis when configured and reachable, otherwise the
// in-process LRU.
func (a *app) questionStore(ctx context.Context, p *profile.Profile) cache.Store {
	if p.RedisAddr == "" {
		slog.Info("Quick question cache enabled", "backend", "memory", "ttl", p.QuestionCacheTTL)
		return cache.NewMemoryQuestions()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     p.RedisAddr,
		Password: p.RedisPassword,
		DB:       p.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unreachable, using in-memory question cache", "redis_addr", p.RedisAddr, "error", err)
		_ = rdb.Close()
		return cache.NewMemoryQuestions()
	}
	a.closers = append(a.closers, rdb)
	slog.Info("Quick question cache enabled", "backend", "redis", "ttl", p.QuestionCacheTTL)
	return cache.NewRedisQuestions(rdb)
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			slog.Warn("Failed to release resource", "error", err)
		}
	}
	a.closers = nil
}

// newLogger builds the process logger from the --log-format and --log-level flags.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
