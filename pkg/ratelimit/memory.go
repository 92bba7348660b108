package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the in-process fallback for deployments without Redis.
// State is lost on restart and not shared across instances, so it is only
// correct for single-instance deployments.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[string]*windowCount
	limit  int64
	window time.Duration
}

type windowCount struct {
	n       int64
	resetAt time.Time
}

func NewMemoryLimiter(limit int64, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counts: make(map[string]*windowCount),
		limit:  limit,
		window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.counts[key]
	if !ok || now.After(wc.resetAt) {
		l.counts[key] = &windowCount{n: 1, resetAt: now.Add(l.window)}
		return true, nil
	}
	wc.n++
	return wc.n <= l.limit, nil
}
