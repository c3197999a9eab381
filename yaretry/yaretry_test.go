package yaretry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaHTTP/yabackoff"
	"github.com/YaCodeDev/GoYaHTTP/yaretry"
)

type recordingSleeper struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, d)

	return nil
}

type countingBackoff struct {
	yabackoff.Backoff
	calls int
}

func (b *countingBackoff) Next() time.Duration {
	b.calls++

	return b.Backoff.Next()
}

func TestShouldRetry_NotRequiredSkipsBackoff(t *testing.T) {
	t.Parallel()

	backoff := &countingBackoff{Backoff: yabackoff.ZeroBackoff{}}
	sleeper := &recordingSleeper{}

	retrier := yaretry.New(
		backoff,
		func(status int) bool { return status >= 500 },
		yaretry.WithSleeper(sleeper),
	)

	retry, err := retrier.ShouldRetry(context.Background(), 404)

	require.Nil(t, err)
	assert.False(t, retry)
	assert.Zero(t, backoff.calls)
	assert.Empty(t, sleeper.calls)
}

func TestShouldRetry_ConstantBackoffCounts(t *testing.T) {
	t.Parallel()

	sleeper := &recordingSleeper{}

	retrier := yaretry.New[int](
		yabackoff.NewConstant(4*time.Millisecond, 7),
		nil,
		yaretry.WithSleeper(sleeper),
	)

	for {
		retry, err := retrier.ShouldRetry(context.Background(), 500)
		require.Nil(t, err)

		if !retry {
			break
		}

		assert.Equal(t, 4*time.Millisecond, sleeper.calls[len(sleeper.calls)-1])
	}

	assert.Len(t, sleeper.calls, 6)
	assert.Equal(t, 6, retrier.Waits())
	assert.Equal(t, 24*time.Millisecond, retrier.Waited())

	retrier.Reset()

	assert.Zero(t, retrier.Waits())

	retry, err := retrier.ShouldRetry(context.Background(), 500)
	require.Nil(t, err)
	assert.True(t, retry)
}

func TestShouldRetry_NilBackoffNeverRetries(t *testing.T) {
	t.Parallel()

	retrier := yaretry.New[error](nil, nil)

	retry, err := retrier.ShouldRetry(context.Background(), assert.AnError)

	require.Nil(t, err)
	assert.False(t, retry)
}

func TestShouldRetry_InterruptedWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	retrier := yaretry.New[int](yabackoff.NewConstant(time.Hour, 0), nil)

	done := make(chan struct{})

	var (
		retry  bool
		gotErr error
	)

	go func() {
		defer close(done)

		var err error

		retry, err = retrier.ShouldRetry(ctx, 503)
		if err != nil {
			gotErr = err
		}
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sleep was not interrupted")
	}

	assert.False(t, retry)
	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, yaretry.ErrInterrupted)
	assert.ErrorIs(t, gotErr, context.Canceled)
	assert.ErrorIs(t, ctx.Err(), context.Canceled, "cancellation stays observable to the caller")
	assert.Zero(t, retrier.Waits())
}
