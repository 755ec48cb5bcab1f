package security

import (
	"math"
	"sync"
	"time"
)

const (
	// lockoutThreshold is the number of consecutive failures that locks an
	// identifier.
	lockoutThreshold = 5
	// lockoutDuration is how long an identifier stays locked.
	lockoutDuration = time.Minute
	// lockoutRetention is how long an expired lock entry is kept before the
	// sweep purges it.
	lockoutRetention = 5 * time.Minute
)

type lockoutEntry struct {
	failedAttempts int
	lockedUntil    time.Time // zero when not locked
	lastAttempt    time.Time
}

// LockStatus reports whether an identifier is locked and for how much longer.
type LockStatus struct {
	Locked           bool
	RemainingSeconds int
}

// LockoutGuard tracks failed login attempts per identifier (the login handle,
// not the client address) and imposes a short timed lockout after repeated
// failures. This is a basic throttle against online guessing; it does nothing
// against credential stuffing spread across identifiers.
//
// Each mutation runs under a single mutex so the threshold crossing is exact
// under concurrent requests.
type LockoutGuard struct {
	mu      sync.Mutex
	entries map[string]*lockoutEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewLockoutGuard returns an empty lockout guard.
func NewLockoutGuard() *LockoutGuard {
	return &LockoutGuard{
		entries: make(map[string]*lockoutEntry),
		now:     time.Now,
	}
}

// RecordFailedLogin registers one failed attempt for id and reports whether
// the identifier is locked as of this call: true when this failure causes the
// transition into the locked state, and true again for attempts made while
// the lock is still active (those do not increment the counter).
func (g *LockoutGuard) RecordFailedLogin(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	entry, ok := g.entries[id]
	if !ok {
		g.entries[id] = &lockoutEntry{failedAttempts: 1, lastAttempt: now}
		return false
	}

	if !entry.lockedUntil.IsZero() {
		if now.Before(entry.lockedUntil) {
			return true // still locked
		}
		// Lock expired: start a fresh failure count.
		entry.failedAttempts = 1
		entry.lockedUntil = time.Time{}
		entry.lastAttempt = now
		return false
	}

	entry.failedAttempts++
	entry.lastAttempt = now
	if entry.failedAttempts >= lockoutThreshold {
		entry.lockedUntil = now.Add(lockoutDuration)
		return true
	}
	return false
}

// IsAccountLocked reports the current lock state for id. An elapsed lock is
// cleared as a side effect.
func (g *LockoutGuard) IsAccountLocked(id string) LockStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[id]
	if !ok || entry.lockedUntil.IsZero() {
		return LockStatus{}
	}

	now := g.now()
	if !now.Before(entry.lockedUntil) {
		entry.lockedUntil = time.Time{}
		entry.failedAttempts = 0
		return LockStatus{}
	}

	remaining := entry.lockedUntil.Sub(now)
	return LockStatus{
		Locked:           true,
		RemainingSeconds: int(math.Ceil(remaining.Seconds())),
	}
}

// ResetFailedLogins drops all state for id. Called after a successful
// authentication.
func (g *LockoutGuard) ResetFailedLogins(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, id)
}

// StartSweeper launches the periodic cleanup goroutine. Call Stop to end it.
func (g *LockoutGuard) StartSweeper() {
	g.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.Sweep()
			case <-g.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweeper goroutine if one is running.
func (g *LockoutGuard) Stop() {
	if g.stop != nil {
		g.once.Do(func() { close(g.stop) })
	}
}

// Sweep purges entries whose lock expired longer than lockoutRetention ago.
// Entries that never reached the locked state are purged once their last
// attempt is older than the retention window, bounding memory against floods
// of failures for made-up identifiers.
func (g *LockoutGuard) Sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for id, entry := range g.entries {
		switch {
		case !entry.lockedUntil.IsZero() && now.After(entry.lockedUntil.Add(lockoutRetention)):
			delete(g.entries, id)
		case entry.lockedUntil.IsZero() && now.After(entry.lastAttempt.Add(lockoutRetention)):
			delete(g.entries, id)
		}
	}
}

// Len returns the number of tracked identifiers.
func (g *LockoutGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
