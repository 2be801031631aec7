package cart

import (
	"sync"
	"time"
)

// DefaultDedupWindow absorbs double-submits of the same add
const DefaultDedupWindow = 300 * time.Millisecond

// DedupGuard remembers only the most recent add (key and time). A repeat of
// that same key inside the window is suppressed; any other key passes. It is
// a single-slot guard, not a rate limiter: non-adjacent duplicates pass.
type DedupGuard struct {
	mu      sync.Mutex
	window  time.Duration
	lastKey string
	lastAt  time.Time
	has     bool
}

// NewDedupGuard creates a guard. A non-positive window disables suppression.
func NewDedupGuard(window time.Duration) *DedupGuard {
	return &DedupGuard{window: window}
}

// Window returns the configured suppression window
func (g *DedupGuard) Window() time.Duration {
	return g.window
}

// ShouldSuppress reports whether an add for key at now repeats the remembered add
func (g *DedupGuard) ShouldSuppress(key string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suppressLocked(key, now)
}

// Record remembers an add for key at now, replacing the previous slot
func (g *DedupGuard) Record(key string, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastKey, g.lastAt, g.has = key, now, true
}

// Admit checks and records in one step. It returns false for a suppressed add;
// a suppressed add does not refresh the remembered slot.
func (g *DedupGuard) Admit(key string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.suppressLocked(key, now) {
		return false
	}
	g.lastKey, g.lastAt, g.has = key, now, true
	return true
}

// Reset forgets the remembered add
func (g *DedupGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastKey, g.lastAt, g.has = "", time.Time{}, false
}

func (g *DedupGuard) suppressLocked(key string, now time.Time) bool {
	if !g.has || g.window <= 0 || key != g.lastKey {
		return false
	}
	elapsed := now.Sub(g.lastAt)
	return elapsed >= 0 && elapsed < g.window
}
