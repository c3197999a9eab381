package yabackoff

import "time"

// Constant waits the same interval between attempts and allows at most maxTries
// attempts in total, i.e. maxTries-1 waits. A maxTries of 0 never stops.
//
// Example:
//
//	backoff := yabackoff.NewConstant(10*time.Millisecond, 3)
//	backoff.Next() // 10ms
//	backoff.Next() // 10ms
//	backoff.Next() // Stop
type Constant struct {
	interval time.Duration
	maxTries uint
	tries    uint
}

// NewConstant creates a Constant handing out interval until maxTries attempts
// have been made.
//
// Example:
//
//	backoff := yabackoff.NewConstant(10*time.Millisecond, 7) // 6 waits, then Stop
func NewConstant(interval time.Duration, maxTries uint) *Constant {
	return &Constant{
		interval: interval,
		maxTries: maxTries,
	}
}

// Next returns the interval, or Stop once maxTries-1 waits were handed out.
//
// Example:
//
//	if delay := backoff.Next(); delay == yabackoff.Stop {
//		return lastErr
//	}
func (c *Constant) Next() time.Duration {
	if c.maxTries > 0 && c.tries+1 >= c.maxTries {
		return Stop
	}

	c.tries++

	return c.interval
}

// Reset forgets the waits handed out so far.
//
// Example:
//
//	backoff.Reset()
//	fmt.Println(backoff.Tries()) // 0
func (c *Constant) Reset() {
	c.tries = 0
}

// Tries returns how many waits were handed out since the last Reset.
func (c *Constant) Tries() uint {
	return c.tries
}
