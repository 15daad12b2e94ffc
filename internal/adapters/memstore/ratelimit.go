package memstore

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// RateLimiter counts requests per key in fixed windows. Once the limit is
// hit the remaining requests in the window are rejected; the next window
// starts clean.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[string]window), now: time.Now}
}

func (rl *RateLimiter) Allow(_ context.Context, key string, limit int, windowLen time.Duration) (bool, error) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) > windowLen {
		rl.windows[key] = window{count: 1, start: now}
		return true, nil
	}
	if w.count >= limit {
		return false, nil
	}
	w.count++
	rl.windows[key] = w
	return true, nil
}

// PurgeExpired drops long-dead windows. Window length is not stored per
// entry, so the cutoff is twice the largest configured window (one hour).
func (rl *RateLimiter) PurgeExpired(_ context.Context) (int, error) {
	cutoff := rl.now().Add(-2 * time.Hour)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for k, w := range rl.windows {
		if w.start.Before(cutoff) {
			delete(rl.windows, k)
			removed++
		}
	}
	return removed, nil
}
