// Package security implements the login security pipeline: a fixed-window
// rate limiter, a per-identifier account lockout guard and a bounded in-memory
// audit log. All state is process-local and owned by the constructed instance
// so tests can build isolated copies; nothing here is a package-level
// singleton.
package security

import (
	"sync"
	"time"
)

// sweepInterval is how often expired entries are purged. The sweep is
// advisory; correctness comes from the lazy reset on access.
const sweepInterval = 5 * time.Minute

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a fixed-window request counter keyed by an arbitrary string
// (typically "action:clientIP"). A burst straddling a window boundary can
// admit up to 2x the limit; that is an accepted property of the fixed-window
// strategy, not a bug.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter returns an empty rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Check records one request against key and reports whether it must be
// rejected. The first request of a window (re)initializes the counter; once
// the count reaches limit, further requests in the same window are rejected
// without incrementing.
func (rl *RateLimiter) Check(key string, limit int, window time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.entries[key]
	if !ok || now.After(entry.resetTime) {
		rl.entries[key] = &rateLimitEntry{count: 1, resetTime: now.Add(window)}
		return false
	}

	if entry.count >= limit {
		return true
	}
	entry.count++
	return false
}

// StartSweeper launches the periodic cleanup goroutine. Call Stop to end it.
func (rl *RateLimiter) StartSweeper() {
	rl.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Sweep()
			case <-rl.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweeper goroutine if one is running.
func (rl *RateLimiter) Stop() {
	if rl.stop != nil {
		rl.once.Do(func() { close(rl.stop) })
	}
}

// Sweep deletes entries whose window has expired to bound memory use.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, entry := range rl.entries {
		if now.After(entry.resetTime) {
			delete(rl.entries, key)
		}
	}
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}
