package ratelimiter

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// UserLimiters holds one token bucket limiter per user, created lazily.
// Each limiter enforces a steady-state rate of LLM calls per second.
// Burst is set equal to the rate so no extra burst capacity is allowed
// beyond the configured per-second maximum.
type UserLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// New creates a UserLimiters granting ratePerSec LLM calls per second per user.
func New(ratePerSec int) *UserLimiters {
	burst := ratePerSec
	if burst < 1 {
		burst = 1
	}
	return &UserLimiters{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(ratePerSec),
		burst:    burst,
	}
}

// Wait blocks until the user's limiter grants a token.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (ul *UserLimiters) Wait(ctx context.Context, userID string) error {
	return ul.limiter(userID).Wait(ctx)
}

func (ul *UserLimiters) limiter(userID string) *rate.Limiter {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	l, ok := ul.limiters[userID]
	if !ok {
		l = rate.NewLimiter(ul.rate, ul.burst)
		ul.limiters[userID] = l
	}
	return l
}
