package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket used to pace outbound provider requests.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// New creates a limiter allowing refillPerSec requests per second with
// bursts up to capacity.
func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		tokens:     capacity,
		capacity:   capacity,
		refillRate: refillPerSec,
		last:       time.Now(),
	}
}

// Allow returns true if one token can be consumed now.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(time.Now())
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Limiter) refill(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()
	if elapsed <= 0 {
		return
	}
	l.tokens += elapsed * l.refillRate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.last = now
}
