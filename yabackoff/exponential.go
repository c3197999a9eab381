package yabackoff

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// ExponentialConfig holds the tunables of an Exponential back-off. The `default`
// tags let it be loaded with the config package.
type ExponentialConfig struct {
	InitialInterval     time.Duration `default:"500ms"`
	RandomizationFactor float64       `default:"0.5"`
	Multiplier          float64       `default:"2"`
	MaxInterval         time.Duration `default:"60s"`
	MaxElapsedTime      time.Duration `default:"15m"`
}

// DefaultExponentialConfig returns the package defaults as a config value.
func DefaultExponentialConfig() ExponentialConfig {
	return ExponentialConfig{
		InitialInterval:     DefaultInitialInterval,
		RandomizationFactor: DefaultRandomizationFactor,
		Multiplier:          DefaultMultiplier,
		MaxInterval:         DefaultMaxInterval,
		MaxElapsedTime:      DefaultMaxElapsedTime,
	}
}

// Validate reports the first tunable outside its allowed range.
func (c ExponentialConfig) Validate() yaerrors.Error {
	var problem string

	switch {
	case c.InitialInterval <= 0:
		problem = "initial interval must be positive"
	case c.RandomizationFactor < 0 || c.RandomizationFactor >= 1:
		problem = "randomization factor must be in [0, 1)"
	case c.Multiplier < 1:
		problem = "multiplier must be at least 1"
	case c.MaxInterval < c.InitialInterval:
		problem = "max interval must not be less than initial interval"
	case c.MaxElapsedTime <= 0:
		problem = "max elapsed time must be positive"
	default:
		return nil
	}

	return yaerrors.FromError(
		http.StatusInternalServerError,
		ErrInvalidConfig,
		fmt.Sprintf("[BACKOFF] %s: %+v", problem, c),
	)
}

// ExponentialOption customises an Exponential built by NewExponentialWithConfig.
type ExponentialOption func(*Exponential)

// WithClock replaces the clock used for elapsed-time accounting.
func WithClock(clock Clock) ExponentialOption {
	return func(e *Exponential) {
		e.clock = clock
	}
}

// WithRandom replaces the [0, 1) source used for jitter.
func WithRandom(random func() float64) ExponentialOption {
	return func(e *Exponential) {
		e.random = random
	}
}

// Exponential is a back‑off that multiplies the delay by a constant factor
// each time Next() is called, capping at maxInterval. Every returned delay is
// randomized within ±randomizationFactor of the underlying interval, and Next
// returns Stop once more than maxElapsedTime has passed since creation or Reset.
//
// Example:
//
//	backoff := yabackoff.NewExponential(500*time.Millisecond, 2, 5*time.Second, time.Minute)
//	// underlying intervals: 500ms, 1s, 2s, 4s, 5s, 5s, ...
//	// returned delays:      each within ±50% of the interval
//
// The zero value of Exponential is usable: on first use the package defaults
// are substituted and jitter is disabled.
type Exponential struct {
	initialInterval     time.Duration
	randomizationFactor float64
	multiplier          float64
	maxInterval         time.Duration
	maxElapsedTime      time.Duration
	currentInterval     time.Duration
	startTime           time.Time
	clock               Clock
	random              func() float64
}

// NewExponential creates a new exponential back‑off with the default randomization
// factor. Any zero argument is replaced by the corresponding package default.
// An initial interval above maxInterval starts at maxInterval, and a multiplier
// below 1 is raised to 1.
//
// Example:
//
//	backoff := yabackoff.NewExponential(0, 0, 0, 0) // uses all defaults
//	fmt.Println(backoff.Current())                  // 500ms
func NewExponential(
	initialInterval time.Duration,
	multiplier float64,
	maxInterval time.Duration,
	maxElapsedTime time.Duration,
) *Exponential {
	e := &Exponential{
		initialInterval:     initialInterval,
		randomizationFactor: DefaultRandomizationFactor,
		multiplier:          multiplier,
		maxInterval:         maxInterval,
		maxElapsedTime:      maxElapsedTime,
	}

	e.safety()
	e.Reset()

	return e
}

// NewExponentialWithConfig validates cfg and builds an Exponential from it.
//
// Example:
//
//	backoff, err := yabackoff.NewExponentialWithConfig(cfg, yabackoff.WithClock(fakeClock))
//	if err != nil {
//		return err.Wrap("build backoff")
//	}
func NewExponentialWithConfig(cfg ExponentialConfig, opts ...ExponentialOption) (*Exponential, yaerrors.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Exponential{
		initialInterval:     cfg.InitialInterval,
		randomizationFactor: cfg.RandomizationFactor,
		multiplier:          cfg.Multiplier,
		maxInterval:         cfg.MaxInterval,
		maxElapsedTime:      cfg.MaxElapsedTime,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.safety()
	e.Reset()

	return e, nil
}

// Reset sets currentInterval back to the initial value and restarts the elapsed clock.
//
// Example:
//
//	_ = backoff.Next()
//	backoff.Reset()
//	fmt.Println(backoff.Current()) // initial interval
func (e *Exponential) Reset() {
	e.safety()

	e.currentInterval = e.initialInterval
	e.startTime = e.clock.Now()
}

// Next returns the jittered delay for the current interval and advances the
// interval for the following call. It returns Stop once Elapsed exceeds the
// max elapsed time.
//
// Example:
//
//	delay := backoff.Next()
//	if delay == yabackoff.Stop {
//		return lastErr
//	}
func (e *Exponential) Next() time.Duration {
	e.safety()

	if e.startTime.IsZero() {
		e.Reset()
	}

	if e.Elapsed() > e.maxElapsedTime {
		return Stop
	}

	delay := e.randomizedInterval()

	e.incrementCurrentInterval()

	return delay
}

// Current reports the underlying interval the next call to Next() will jitter.
// Calling Current() never mutates state.
//
// Example:
//
//	fmt.Println("current interval:", backoff.Current())
func (e *Exponential) Current() time.Duration {
	if e.currentInterval == 0 {
		return DefaultInitialInterval
	}

	return e.currentInterval
}

// Elapsed returns the time passed since creation or the last Reset.
func (e *Exponential) Elapsed() time.Duration {
	if e.startTime.IsZero() {
		return 0
	}

	clock := e.clock
	if clock == nil {
		clock = SystemClock
	}

	return clock.Now().Sub(e.startTime)
}

// randomizedInterval draws uniformly from [current-delta, current+delta].
func (e *Exponential) randomizedInterval() time.Duration {
	if e.randomizationFactor == 0 {
		return e.currentInterval
	}

	delta := e.randomizationFactor * float64(e.currentInterval)
	lo := float64(e.currentInterval) - delta
	hi := float64(e.currentInterval) + delta

	return time.Duration(lo + e.random()*(hi-lo+1))
}

// incrementCurrentInterval multiplies currentInterval by multiplier, clamping
// at maxInterval. The division form also guards against overflow.
func (e *Exponential) incrementCurrentInterval() {
	if float64(e.currentInterval) >= float64(e.maxInterval)/e.multiplier {
		e.currentInterval = e.maxInterval
	} else {
		e.currentInterval = time.Duration(float64(e.currentInterval) * e.multiplier)
	}
}

// safety lazily substitutes defaults the first time the struct is used, so a
// zero value Exponential is fully functional.
func (e *Exponential) safety() {
	if e.initialInterval <= 0 {
		e.initialInterval = DefaultInitialInterval
	}

	if e.maxInterval <= 0 {
		e.maxInterval = max(DefaultMaxInterval, e.initialInterval)
	}

	// The interval never starts above the cap and never shrinks.
	e.initialInterval = min(e.initialInterval, e.maxInterval)

	if e.currentInterval <= 0 {
		e.currentInterval = e.initialInterval
	}

	e.currentInterval = min(e.currentInterval, e.maxInterval)

	switch {
	case e.multiplier == 0:
		e.multiplier = DefaultMultiplier
	case e.multiplier < 1:
		e.multiplier = 1
	}

	if e.maxElapsedTime <= 0 {
		e.maxElapsedTime = DefaultMaxElapsedTime
	}

	if e.clock == nil {
		e.clock = SystemClock
	}

	if e.random == nil {
		e.random = rand.Float64
	}
}
