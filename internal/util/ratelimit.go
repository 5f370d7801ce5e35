package util

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces operations to a per-minute budget with a single-token
// bucket: at most one operation fires immediately, the rest wait for the
// bucket to refill.
type RateLimiter struct {
	mu     sync.Mutex
	rate   float64 // tokens per second
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a RateLimiter allowing perMinute operations per
// minute.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		rate:   float64(perMinute) / 60.0,
		tokens: 1,
		last:   time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()
		rl.tokens += now.Sub(rl.last).Seconds() * rl.rate
		if rl.tokens > 1 {
			rl.tokens = 1
		}
		rl.last = now

		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		// Sleep for the time the remaining deficit takes to refill, then
		// re-check under the lock in case another waiter got there first.
		wait := time.Duration((1 - rl.tokens) / rl.rate * float64(time.Second))
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
