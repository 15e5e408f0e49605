// Package ratelimit throttles inference requests per client key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// MemoryLimiter is an in-process token bucket per key. Buckets idle long
// enough to have refilled completely are dropped; a new bucket starts full,
// so dropping them changes no decision.
type MemoryLimiter struct {
	mu           sync.Mutex
	m            map[string]*bucket
	capacity     float64
	refillPerSec float64
	idle         time.Duration // time to refill an empty bucket, 0 when refill is off
	lastSweep    time.Time
	now          func() time.Time
}

// NewMemory creates a token bucket limiter. Every key starts full.
func NewMemory(capacity, refillPerSec float64) *MemoryLimiter {
	l := &MemoryLimiter{
		m:            make(map[string]*bucket),
		capacity:     capacity,
		refillPerSec: refillPerSec,
		now:          time.Now,
	}
	if refillPerSec > 0 {
		l.idle = time.Duration(capacity / refillPerSec * float64(time.Second))
	}
	return l
}

// Allow returns true if one token can be consumed for key.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillPerSec
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, nil
	}
	return false, nil
}

// sweep drops full buckets, at most once per idle period. Without refill a
// drained bucket never recovers, so nothing is dropped.
func (l *MemoryLimiter) sweep(now time.Time) {
	if l.idle <= 0 || now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for k, b := range l.m {
		if now.Sub(b.last) >= l.idle {
			delete(l.m, k)
		}
	}
}
