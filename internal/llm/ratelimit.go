package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter spaces requests evenly so that no more than the configured
// number start in any minute. A nil limiter never waits.
type rateLimiter struct {
	next     time.Time
	now      func() time.Time
	interval time.Duration
	mu       sync.Mutex
}

// newRateLimiter returns nil when requestsPerMinute is not positive.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return &rateLimiter{
		interval: time.Minute / time.Duration(requestsPerMinute),
		now:      time.Now,
	}
}

// wait blocks until the next request slot or until ctx is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}

	rl.mu.Lock()
	now := rl.now()
	slot := rl.next
	if slot.Before(now) {
		slot = now
	}
	rl.next = slot.Add(rl.interval)
	rl.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
