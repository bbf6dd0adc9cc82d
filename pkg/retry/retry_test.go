package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neuroassist/backend/pkg/retry"
)

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      4 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil on first success", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, fastConfig(5), func() error {
			calls++
			return nil
		}, nil)

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, fastConfig(5), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, nil)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts the attempt budget and wraps the last error", func(t *testing.T) {
		last := errors.New("still failing")
		calls := 0
		err := retry.Do(ctx, fastConfig(3), func() error {
			calls++
			return last
		}, nil)

		assert.Error(t, err)
		assert.ErrorIs(t, err, last)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error returns immediately", func(t *testing.T) {
		fatal := errors.New("bad request")
		calls := 0
		err := retry.Do(ctx, fastConfig(5), func() error {
			calls++
			return fatal
		}, func(err error) bool {
			return !errors.Is(err, fatal)
		})

		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context aborts between attempts", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		calls := 0
		err := retry.Do(cancelled, fastConfig(10), func() error {
			calls++
			cancel()
			return errors.New("transient")
		}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestDoWithLog(t *testing.T) {
	ctx := context.Background()

	t.Run("logs each failed attempt before sleeping", func(t *testing.T) {
		var attempts []int
		var delays []time.Duration
		calls := 0

		err := retry.DoWithLog(ctx, fastConfig(3), "TestService",
			func() error {
				calls++
				return errors.New("transient")
			},
			nil,
			func(attempt int, err error, nextDelay time.Duration) {
				attempts = append(attempts, attempt)
				delays = append(delays, nextDelay)
			},
		)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "TestService")
		// The final attempt fails without a log entry.
		assert.Equal(t, []int{1, 2}, attempts)
		assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
	})

	t.Run("delay growth is capped at the maximum", func(t *testing.T) {
		var delays []time.Duration

		_ = retry.DoWithLog(ctx, fastConfig(6), "TestService",
			func() error { return errors.New("transient") },
			nil,
			func(attempt int, err error, nextDelay time.Duration) {
				delays = append(delays, nextDelay)
			},
		)

		assert.Equal(t, []time.Duration{
			time.Millisecond,
			2 * time.Millisecond,
			4 * time.Millisecond,
			4 * time.Millisecond,
			4 * time.Millisecond,
		}, delays)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := retry.DefaultConfig()

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 4*time.Second, cfg.InitialDelay)
	assert.Equal(t, 60*time.Second, cfg.MaxDelay)
	assert.Equal(t, 2.0, cfg.BackoffFactor)
}
