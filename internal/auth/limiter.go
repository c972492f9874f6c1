package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// limiterMaxEntries caps how many usernames are tracked at once; login
	// usernames are attacker-chosen, so the map must not grow without bound.
	limiterMaxEntries = 10000
	// limiterIdleAfter is how long an entry may sit unused before eviction.
	// Long enough that an evicted-and-recreated limiter has refilled its
	// burst anyway, so eviction never loosens an active throttle.
	limiterIdleAfter = 30 * time.Minute
)

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// LoginLimiter throttles login attempts per username. State is in-process
// only, matching the session store's lifetime.
type LoginLimiter struct {
	mu    sync.Mutex
	users map[string]*limiterEntry
	limit rate.Limit
	burst int
}

// NewLoginLimiter allows a burst of attempts and then one attempt per
// refill interval for each username.
func NewLoginLimiter(limit rate.Limit, burst int) *LoginLimiter {
	return &LoginLimiter{users: make(map[string]*limiterEntry), limit: limit, burst: burst}
}

// Allow reports whether another attempt for this username may proceed now.
func (l *LoginLimiter) Allow(username string) bool {
	now := time.Now()
	l.mu.Lock()
	e, ok := l.users[username]
	if !ok {
		if len(l.users) >= limiterMaxEntries {
			l.evict(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.users[username] = e
	}
	e.seen = now
	l.mu.Unlock()
	return e.lim.Allow()
}

// evict drops idle entries; if every entry is fresh the whole table is reset,
// trading a one-off throttle reset for a hard memory bound.
func (l *LoginLimiter) evict(now time.Time) {
	for u, e := range l.users {
		if now.Sub(e.seen) > limiterIdleAfter {
			delete(l.users, u)
		}
	}
	if len(l.users) >= limiterMaxEntries {
		l.users = make(map[string]*limiterEntry)
	}
}
