package engine

import (
	"sync"
	"time"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// DefaultCooldown is the window within which repeated presses of the same
// physical key are dropped.
const DefaultCooldown = 200 * time.Millisecond

// RateLimiter suppresses duplicate dispatch of the same key within a
// cooldown window. It is safe for concurrent use; the lock is held only
// for the check-and-update.
type RateLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastSeen map[domain.KeyIdentity]time.Time
}

// NewRateLimiter creates a limiter with the given cooldown. A zero or
// negative cooldown disables limiting.
func NewRateLimiter(cooldown time.Duration) *RateLimiter {
	return &RateLimiter{
		cooldown: cooldown,
		lastSeen: make(map[domain.KeyIdentity]time.Time),
	}
}

// Allow reports whether an event for key at the given instant should be
// dispatched, and records it as the last seen occurrence if so.
func (r *RateLimiter) Allow(key domain.KeyIdentity, now time.Time) bool {
	if r.cooldown <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if last, ok := r.lastSeen[key]; ok && now.Sub(last) < r.cooldown {
		return false
	}
	r.lastSeen[key] = now
	return true
}
