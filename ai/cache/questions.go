package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

// KeyPrefix namespaces quick-question entries in Redis.
const KeyPrefix = "complaintdesk:quick_questions:"

// MemoryQuestions caches quick-question sets in process.
type MemoryQuestions struct {
	lru *LRUCache[taxonomy.Role, []string]
}

// NewMemoryQuestions creates an in-process cache. There are only a handful of
// roles, so the capacity is small.
func NewMemoryQuestions() *MemoryQuestions {
	return &MemoryQuestions{lru: NewLRUCache[taxonomy.Role, []string](16, 0)}
}

// Get returns a copy of the cached set for role.
func (m *MemoryQuestions) Get(_ context.Context, role taxonomy.Role) ([]string, bool) {
	qs, ok := m.lru.Get(role)
	if !ok {
		return nil, false
	}
	return append([]string(nil), qs...), true
}

// Set stores a copy of questions for ttl.
func (m *MemoryQuestions) Set(_ context.Context, role taxonomy.Role, questions []string, ttl time.Duration) {
	m.lru.Set(role, append([]string(nil), questions...), ttl)
}

// RedisStore is the subset of *redis.Client the cache needs.
type RedisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisQuestions caches quick-question sets in Redis as JSON arrays. Redis
// errors are logged and treated as misses.
type RedisQuestions struct {
	rdb RedisStore
}

// NewRedisQuestions wraps a Redis client.
func NewRedisQuestions(rdb RedisStore) *RedisQuestions {
	return &RedisQuestions{rdb: rdb}
}

// Get returns the cached set for role.
func (r *RedisQuestions) Get(ctx context.Context, role taxonomy.Role) ([]string, bool) {
	data, err := r.rdb.Get(ctx, KeyPrefix+string(role)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("question cache read failed", "role", role, "error", err)
		}
		return nil, false
	}

	var qs []string
	if err := json.Unmarshal(data, &qs); err != nil {
		slog.Warn("question cache entry is corrupt", "role", role, "error", err)
		return nil, false
	}
	return qs, true
}

// Set stores questions for ttl.
func (r *RedisQuestions) Set(ctx context.Context, role taxonomy.Role, questions []string, ttl time.Duration) {
	data, err := json.Marshal(questions)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, KeyPrefix+string(role), data, ttl).Err(); err != nil {
		slog.Warn("question cache write failed", "role", role, "error", err)
	}
}

// Store is implemented by MemoryQuestions and RedisQuestions.
type Store interface {
	Get(ctx context.Context, role taxonomy.Role) ([]string, bool)
	Set(ctx context.Context, role taxonomy.Role, questions []string, ttl time.Duration)
}

// Observer is told about every lookup.
type Observer interface {
	ObserveCacheLookup(hit bool)
}

type observed struct {
	Store
	observer Observer
}

// Observed reports every Get on store to observer.
func Observed(store Store, observer Observer) Store {
	if observer == nil {
		return store
	}
	return &observed{Store: store, observer: observer}
}

func (o *observed) Get(ctx context.Context, role taxonomy.Role) ([]string, bool) {
	qs, ok := o.Store.Get(ctx, role)
	o.observer.ObserveCacheLookup(ok)
	return qs, ok
}
