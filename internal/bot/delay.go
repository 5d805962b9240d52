package bot

import (
	"context"
	"time"
)

// Delayer suspends a run between two posts.
type Delayer interface {
	// Wait blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Wait(ctx context.Context, d time.Duration) error
}

// DelayFunc adapts a function to Delayer.
type DelayFunc func(ctx context.Context, d time.Duration) error

// Wait calls f.
func (f DelayFunc) Wait(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerDelayer waits on a real timer.
type TimerDelayer struct{}

// Wait blocks for d unless ctx is cancelled first.
func (TimerDelayer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
