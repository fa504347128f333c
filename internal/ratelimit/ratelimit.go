// Package ratelimit bounds repeated unlock attempts per snippet and
// client so password guessing stays impractical.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate decides whether an attempt identified by key may proceed.
type Gate interface {
	// Check reports whether the attempt is limited. A limited attempt
	// consumes nothing further; an allowed attempt is counted.
	Check(ctx context.Context, key string) (limited bool, err error)
}

// AllowAll is a Gate that never limits. Used when the limit is
// configured to zero and in tests.
type AllowAll struct{}

func (AllowAll) Check(context.Context, string) (bool, error) { return false, nil }

// Memory is an in-process Gate. Each key gets a token bucket sized to
// the configured burst, refilled evenly over the window. Suitable for a
// single instance; a multi-instance deployment needs a shared store.
type Memory struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewMemory builds a gate allowing at most attempts per window for each
// key.
func NewMemory(attempts int, window time.Duration) *Memory {
	if attempts < 1 {
		attempts = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Memory{
		buckets:  make(map[string]*bucket),
		limit:    rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
		lastSeen: 2 * window,
	}
}

func (m *Memory) Check(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.seen = now

	if len(m.buckets) > 1 {
		m.sweep(now)
	}

	return !b.limiter.Allow(), nil
}

// sweep drops buckets idle long enough that they are full again.
// Called under mu.
func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.seen) > m.lastSeen {
			delete(m.buckets, k)
		}
	}
}
