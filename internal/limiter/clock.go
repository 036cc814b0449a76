package limiter

import (
	"context"
	"time"
)

// Timer provides time for report timestamps, retry backoff and pacing.
type Timer interface {
	Now() time.Time
	Sleep(ctx context.Context, duration time.Duration) error
}

var _ Timer = Clock{}

// Clock is the wall-clock Timer.
type Clock struct{}

func NewClock() Clock {
	return Clock{}
}

func (Clock) Now() time.Time {
	return time.Now()
}

// Sleep pauses for duration or until ctx is done. A non-positive duration
// returns at once with ctx.Err().
func (Clock) Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
