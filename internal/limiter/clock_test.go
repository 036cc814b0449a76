package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockNow(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := NewClock().Now()
	after := time.Now()

	require.False(t, got.Before(before))
	require.False(t, got.After(after))
}

func TestClockSleep(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	tests := []struct {
		name     string
		ctx      context.Context
		duration time.Duration
		wantErr  error
	}{
		{name: "zero duration", ctx: context.Background(), duration: 0},
		{name: "negative duration", ctx: context.Background(), duration: -time.Millisecond},
		{name: "positive duration", ctx: context.Background(), duration: 2 * time.Millisecond},
		{name: "zero duration on canceled context", ctx: canceled, duration: 0, wantErr: context.Canceled},
		{name: "context canceled", ctx: canceled, duration: time.Minute, wantErr: context.Canceled},
		{name: "deadline exceeded", ctx: expired, duration: time.Minute, wantErr: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewClock().Sleep(tt.ctx, tt.duration)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClockSleepWaitsForDuration(t *testing.T) {
	t.Parallel()

	const pause = 20 * time.Millisecond

	start := time.Now()
	require.NoError(t, NewClock().Sleep(context.Background(), pause))
	require.GreaterOrEqual(t, time.Since(start), pause)
}
