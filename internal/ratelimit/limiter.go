// Package ratelimit bounds initiate attempts per case so a client cannot
// farm verification codes by replaying the geofence check.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter reports whether one more attempt is allowed for the key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Unlimited never rejects. Used when no limiter is configured.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }

// FixedWindow allows at most limit attempts per window, counted in memory.
// Windows are per-key and reset wholesale; good enough for a single node.
type FixedWindow struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*windowCount
}

type windowCount struct {
	start time.Time
	count int
}

// NewFixedWindow builds an in-memory limiter.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:   limit,
		window:  window,
		windows: make(map[string]*windowCount),
	}
}

func (l *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &windowCount{start: now, count: 1}
		return true, nil
	}
	w.count++
	return w.count <= l.limit, nil
}

// RedisWindow is the multi-node variant: INCR with a TTL set on the first
// attempt in each window.
type RedisWindow struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

// NewRedisWindow builds a Redis-backed limiter.
func NewRedisWindow(client redis.Cmdable, limit int, window time.Duration) *RedisWindow {
	return &RedisWindow{client: client, limit: limit, window: window}
}

func (l *RedisWindow) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:initiate:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("increment rate window: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire rate window: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}
