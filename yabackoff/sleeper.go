package yabackoff

import (
	"context"
	"time"
)

// Sleeper blocks for a duration. It is the single cancellation point of a retry
// loop: implementations must return ctx.Err() as soon as ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a plain function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// DefaultSleeper waits on a timer and wakes early when ctx is done.
var DefaultSleeper Sleeper = SleeperFunc(sleep)

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Next asks backoff for the next delay and sleeps for it. It returns false when
// backoff says Stop, and the sleeper's error when the wait was cut short.
//
// Example:
//
//	retry, err := yabackoff.Next(ctx, yabackoff.DefaultSleeper, backoff)
//	if err != nil {
//		return err // cancelled
//	}
//	if !retry {
//		return lastErr // gave up
//	}
func Next(ctx context.Context, sleeper Sleeper, backoff Backoff) (bool, error) {
	delay := backoff.Next()
	if delay == Stop {
		return false, nil
	}

	if err := sleeper.Sleep(ctx, delay); err != nil {
		return false, err
	}

	return true, nil
}
