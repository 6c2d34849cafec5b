package signal

import (
	"sync"
	"time"

	"github.com/healbridge/consult/internal/domain"
)

// RequestRateLimiter bounds consultation requests per seeker over a sliding
// window. Two concurrent seekers can still land on the same provider (no
// reservation is taken at match time); this only stops one seeker from
// flooding every reachable provider.
type RequestRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.SeekerID][]time.Time
	limit    int
	interval time.Duration
}

func NewRequestRateLimiter(limit int, interval time.Duration) *RequestRateLimiter {
	return &RequestRateLimiter{
		history:  make(map[domain.SeekerID][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *RequestRateLimiter) Allow(id domain.SeekerID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[id]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[id] = fresh
	return true
}
