package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimiter — локальный счетчик на случай недоступности Redis.
// Квота действует в пределах одного процесса.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	count     int
	expiresAt time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{windows: make(map[string]*rateWindow)}
}

func (r *MemoryRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.windows[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateWindow{count: 1, expiresAt: now.Add(window)}
		r.windows[key] = entry
		return limit >= 1, nil
	}

	entry.count++
	return entry.count <= limit, nil
}
