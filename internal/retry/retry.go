// Package retry runs an operation until it succeeds, fails permanently,
// runs out of attempts or its context ends.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarcelloLins/WebCrawling101/internal/limiter"
)

// ErrExhausted is wrapped into the error returned when MaxAttempts is reached.
var ErrExhausted = errors.New("retry attempts exhausted")

// BackoffFunc returns the pause after the given failed attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// Policy bounds a retry loop. MaxAttempts <= 0 retries forever.
type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// Unbounded reports whether the policy never gives up on its own.
func (p Policy) Unbounded() bool {
	return p.MaxAttempts <= 0
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{err: err}
}

// Do calls op until it returns nil. It returns the number of attempts made.
// Backoff pauses go through timer so tests can observe them.
func Do(
	ctx context.Context,
	timer limiter.Timer,
	policy Policy,
	op func(ctx context.Context, attempt int) error,
) (int, error) {
	if timer == nil {
		timer = limiter.NewClock()
	}

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}

		attempt++

		err := op(ctx, attempt)
		if err == nil {
			return attempt, nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return attempt, permanent.err
		}

		if !policy.Unbounded() && attempt >= policy.MaxAttempts {
			return attempt, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
		}

		if policy.Backoff != nil {
			if sleepErr := timer.Sleep(ctx, policy.Backoff(attempt)); sleepErr != nil {
				return attempt, sleepErr
			}
		}
	}
}

// Constant always waits delay.
func Constant(delay time.Duration) BackoffFunc {
	return func(int) time.Duration {
		return delay
	}
}

// Exponential doubles base on every attempt and caps the result at maxDelay.
func Exponential(base, maxDelay time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}

		if base <= 0 {
			return 0
		}

		delay := base
		for i := 1; i < attempt; i++ {
			if maxDelay > 0 && delay >= maxDelay {
				return maxDelay
			}

			delay *= 2
		}

		if maxDelay > 0 && delay > maxDelay {
			return maxDelay
		}

		return delay
	}
}
