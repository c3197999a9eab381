// Package yaretry decides whether a failed operation should be attempted again.
// One Retrier drives one logical operation: it filters failures through an
// eligibility predicate, asks its back-off for the next delay and sleeps for it.
//
// The same Retrier type serves different failure kinds; only the predicate changes.
//
// Example usage:
//
//	retrier := yaretry.New(
//		yabackoff.NewExponential(0, 0, 0, 0),
//		func(status int) bool { return status >= 500 },
//	)
//
//	for {
//		status := call()
//		if status < 400 {
//			break
//		}
//
//		retry, err := retrier.ShouldRetry(ctx, status)
//		if err != nil {
//			return err // cancelled while waiting
//		}
//
//		if !retry {
//			break
//		}
//	}
package yaretry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YaCodeDev/GoYaHTTP/yabackoff"
	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/YaCodeDev/GoYaHTTP/yalogger"
)

// StatusClientClosedRequest is the code carried by errors caused by cancellation.
const StatusClientClosedRequest = 499

// ErrInterrupted marks a wait that ended because its context was done.
var ErrInterrupted = errors.New("retry wait interrupted")

// Option customises a Retrier.
type Option func(*options)

type options struct {
	sleeper yabackoff.Sleeper
	log     yalogger.Logger
}

// WithSleeper replaces the default timer-based sleeper.
func WithSleeper(sleeper yabackoff.Sleeper) Option {
	return func(o *options) {
		o.sleeper = sleeper
	}
}

// WithLogger attaches a logger for retry decisions.
func WithLogger(log yalogger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Retrier couples an eligibility predicate with a back-off for failures of type F.
// It is not safe for concurrent use.
type Retrier[F any] struct {
	backoff  yabackoff.Backoff
	required func(F) bool
	sleeper  yabackoff.Sleeper
	log      yalogger.Logger
	waits    int
	waited   time.Duration
}

// New builds a Retrier. A nil backoff never retries and a nil required accepts
// every failure.
//
// Example usage:
//
//	transportRetrier := yaretry.New[error](backoff, isTemporary, yaretry.WithLogger(log))
func New[F any](backoff yabackoff.Backoff, required func(F) bool, opts ...Option) *Retrier[F] {
	o := options{
		sleeper: yabackoff.DefaultSleeper,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if backoff == nil {
		backoff = yabackoff.StopBackoff{}
	}

	if required == nil {
		required = func(F) bool { return true }
	}

	if o.log == nil {
		o.log = yalogger.NewNop()
	}

	return &Retrier[F]{
		backoff:  backoff,
		required: required,
		sleeper:  o.sleeper,
		log:      o.log,
	}
}

// ShouldRetry reports whether failure should be retried, sleeping for the back-off
// delay before returning true. It returns false without touching the back-off when
// failure is not eligible, and false with a non-nil error when the wait was
// interrupted; that error matches both ErrInterrupted and the context error.
//
// Example usage:
//
//	retry, err := retrier.ShouldRetry(ctx, resp.StatusCode)
func (r *Retrier[F]) ShouldRetry(ctx context.Context, failure F) (bool, yaerrors.Error) {
	if !r.required(failure) {
		r.log.Tracef("Failure %v is not eligible for retry", failure)

		return false, nil
	}

	delay := r.backoff.Next()
	if delay == yabackoff.Stop {
		r.log.Debugf("Back-off exhausted after %d waits", r.waits)

		return false, nil
	}

	r.log.Debugf("Backing off for %s before retrying", delay)

	if err := r.sleeper.Sleep(ctx, delay); err != nil {
		return false, yaerrors.FromError(
			StatusClientClosedRequest,
			fmt.Errorf("%w: %w", ErrInterrupted, err),
			fmt.Sprintf("[RETRY] wait of %s interrupted", delay),
		)
	}

	r.waits++
	r.waited += delay

	return true, nil
}

// Reset restarts the back-off and the wait counters.
func (r *Retrier[F]) Reset() {
	r.backoff.Reset()
	r.waits = 0
	r.waited = 0
}

// Waits returns how many completed waits this Retrier performed.
func (r *Retrier[F]) Waits() int {
	return r.waits
}

// Waited returns the total delay slept by this Retrier.
func (r *Retrier[F]) Waited() time.Duration {
	return r.waited
}
