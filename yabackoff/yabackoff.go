// Package yabackoff provides self-contained back-off strategies for retry loops.
// A back-off progressively increases the time you wait between attempts of an
// operation that might fail (for example, an HTTP request), and eventually tells
// the caller to give up by returning Stop.
//
// # Quick start
//
//	backoff := yabackoff.NewExponential(500*time.Millisecond, 2, 60*time.Second, 15*time.Minute)
//	for {
//	    if err := doWork(ctx); err == nil {
//	        break // success – stop retrying
//	    }
//
//	    retry, err := yabackoff.Next(ctx, yabackoff.DefaultSleeper, backoff)
//	    if err != nil || !retry {
//	        break // cancelled or gave up
//	    }
//	}
//
// Strategies are not safe for concurrent use: each logical operation owns its own
// instance for its whole lifetime.
package yabackoff

import (
	"time"
)

// Stop is returned by Backoff.Next when no more retries should be made.
const Stop time.Duration = -1

// Default* constants are applied when the caller provides zero
// values to NewExponential, or when an Exponential is declared
// as a zero value and used without initialisation.
const (
	// DefaultInitialInterval is used when initialInterval == 0.
	DefaultInitialInterval = 500 * time.Millisecond

	// DefaultRandomizationFactor is the jitter applied by NewExponential.
	DefaultRandomizationFactor = 0.5

	// DefaultMultiplier is applied when multiplier == 0.
	DefaultMultiplier = 2.0

	// DefaultMaxInterval is used when maxInterval == 0.
	DefaultMaxInterval = 60 * time.Second

	// DefaultMaxElapsedTime is used when maxElapsedTime == 0.
	DefaultMaxElapsedTime = 15 * time.Minute
)

// Backoff is the behaviour shared by all back‑off strategies in this package.
//
// Example:
//
//	backoff := yabackoff.NewConstant(10*time.Millisecond, 3)
//	_ = backoff.Next() // 10 ms
//	_ = backoff.Next() // 10 ms
//	_ = backoff.Next() // yabackoff.Stop
//	backoff.Reset()    // start over
type Backoff interface {
	// Next advances the strategy and returns the delay to wait before the next
	// attempt, or Stop when the caller should give up.
	Next() time.Duration

	// Reset puts the strategy back to its initial state.
	Reset()
}

// Clock supplies the current time to strategies that track elapsed time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// StopBackoff never allows a retry. It is the substitute used when retrying is disabled.
type StopBackoff struct{}

func (StopBackoff) Next() time.Duration { return Stop }

func (StopBackoff) Reset() {}

// ZeroBackoff always allows an immediate retry.
type ZeroBackoff struct{}

func (ZeroBackoff) Next() time.Duration { return 0 }

func (ZeroBackoff) Reset() {}
