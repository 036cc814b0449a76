package crawler

import (
	"context"
	"time"

	"github.com/MarcelloLins/WebCrawling101/internal/limiter"
)

// DefaultDelay is the pause between two candidates.
const DefaultDelay = 500 * time.Millisecond

// Politeness paces requests by blocking the caller until the next one may start.
// *limiter.Limiter and *limiter.TokenBucket satisfy it.
//
// Most policies are waited on after each candidate. Permit gates
// (*limiter.Limiter, *limiter.TokenBucket) hand out their first permit at
// once, so they are waited on before each candidate instead.
type Politeness interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps the same interval on every call.
type FixedDelay struct {
	interval time.Duration
	clock    limiter.Timer
}

// NewFixedDelay returns a FixedDelay using clock, or real time when clock is nil.
func NewFixedDelay(interval time.Duration, clock limiter.Timer) FixedDelay {
	if clock == nil {
		clock = limiter.NewClock()
	}

	return FixedDelay{interval: interval, clock: clock}
}

func (p FixedDelay) Wait(ctx context.Context) error {
	return p.clock.Sleep(ctx, p.interval)
}

type noWait struct{}

func (noWait) Wait(ctx context.Context) error {
	return ctx.Err()
}

// newPoliteness picks the pacing strategy for opts.
// With several workers the wait is spaced from the previous permit rather than
// added after it, which keeps the aggregate rate bounded without idling.
func newPoliteness(opts Options, workers int, clock limiter.Timer) Politeness {
	switch {
	case opts.Politeness != nil:
		return opts.Politeness
	case opts.RPS > 0:
		return limiter.NewTokenBucketWithTimer(opts.RPS, opts.Burst, clock)
	case opts.Delay <= 0:
		return noWait{}
	case workers > 1:
		return limiter.NewWithTimer(opts.Delay, clock)
	default:
		return NewFixedDelay(opts.Delay, clock)
	}
}

// isPermitGate reports whether p grants a permit up front rather than pausing
// after the work it paces.
func isPermitGate(p Politeness) bool {
	switch p.(type) {
	case *limiter.Limiter, *limiter.TokenBucket:
		return true
	default:
		return false
	}
}
