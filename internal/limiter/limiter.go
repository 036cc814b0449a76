package limiter

import (
	"context"
	"sync"
	"time"
)

// Limiter hands out permits no closer together than interval.
// The first permit is granted immediately; later callers are scheduled
// back to back, so concurrent waiters never share a slot.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	clock    Timer
}

// New creates a limiter using real time.
func New(interval time.Duration) *Limiter {
	return NewWithTimer(interval, Clock{})
}

// NewWithTimer creates a limiter with a custom clock.
// It returns nil for a non-positive interval; a nil limiter never blocks.
func NewWithTimer(interval time.Duration, clock Timer) *Limiter {
	if interval <= 0 {
		return nil
	}

	if clock == nil {
		clock = Clock{}
	}

	return &Limiter{
		interval: interval,
		clock:    clock,
	}
}

// Interval returns the minimum spacing between permits.
func (l *Limiter) Interval() time.Duration {
	if l == nil {
		return 0
	}

	return l.interval
}

// Wait blocks until the next permit or context cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	now := l.clock.Now()
	if l.last.IsZero() {
		l.last = now
		l.mu.Unlock()

		return nil
	}

	next := l.last.Add(l.interval)
	if !now.Before(next) {
		l.last = now
		l.mu.Unlock()

		return nil
	}

	l.last = next
	l.mu.Unlock()

	return l.clock.Sleep(ctx, next.Sub(now))
}
