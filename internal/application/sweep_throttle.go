package application

import (
	"strings"
	"sync"
	"time"
)

// sweepThrottle rate-limits the lazy invitation expiry sweep so hot
// authorization paths do not issue an UPDATE per request. Visibility reads
// independently filter on expiresAt, so a skipped sweep is never a
// correctness problem, only deferred bookkeeping.
type sweepThrottle struct {
	mu         sync.Mutex
	now        func() time.Time
	interval   time.Duration
	maxEntries int
	lastSweep  map[string]time.Time
}

func newSweepThrottle(interval time.Duration, maxEntries int, now func() time.Time) *sweepThrottle {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if now == nil {
		now = time.Now
	}
	return &sweepThrottle{
		now:        now,
		interval:   interval,
		maxEntries: maxEntries,
		lastSweep:  make(map[string]time.Time),
	}
}

// Due reports whether a sweep for the scope key should run now, and records
// the sweep when it should. A nil throttle always sweeps.
func (t *sweepThrottle) Due(key string) bool {
	if t == nil {
		return true
	}
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.lastSweep[key]; ok && now.Sub(last) < t.interval {
		return false
	}

	t.cleanupLocked(now)
	if len(t.lastSweep) >= t.maxEntries {
		t.evictOneLocked()
	}
	t.lastSweep[key] = now
	return true
}

func (t *sweepThrottle) cleanupLocked(now time.Time) {
	for key, last := range t.lastSweep {
		if now.Sub(last) >= t.interval {
			delete(t.lastSweep, key)
		}
	}
}

func (t *sweepThrottle) evictOneLocked() {
	for key := range t.lastSweep {
		delete(t.lastSweep, key)
		return
	}
}

func sweepKey(workspaceID, email string) string {
	builder := strings.Builder{}
	builder.WriteString(workspaceID)
	builder.WriteString("|")
	builder.WriteString(email)
	return builder.String()
}
