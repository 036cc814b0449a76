package limiter

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

var errBurstExceeded = errors.New("token bucket: reservation exceeds burst")

// TokenBucket is a process-wide token bucket. Unlike a per-call sleep it bounds
// the aggregate permit rate no matter how many goroutines call Wait.
type TokenBucket struct {
	limiter *rate.Limiter
	clock   Timer
}

// NewTokenBucket returns a bucket refilled at rps tokens per second using real time.
// It returns nil when rps is not positive; a nil bucket never blocks.
func NewTokenBucket(rps float64, burst int) *TokenBucket {
	return NewTokenBucketWithTimer(rps, burst, Clock{})
}

// NewTokenBucketWithTimer is NewTokenBucket with a custom clock.
func NewTokenBucketWithTimer(rps float64, burst int, clock Timer) *TokenBucket {
	if rps <= 0 {
		return nil
	}

	if burst < 1 {
		burst = 1
	}

	if clock == nil {
		clock = Clock{}
	}

	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		clock:   clock,
	}
}

// Wait blocks until a token is available or ctx is done. A canceled wait
// hands its token back.
func (b *TokenBucket) Wait(ctx context.Context) error {
	if b == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	now := b.clock.Now()
	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return errBurstExceeded
	}

	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	if err := b.clock.Sleep(ctx, delay); err != nil {
		reservation.CancelAt(b.clock.Now())

		return err
	}

	return nil
}
