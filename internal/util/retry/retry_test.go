package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	calls := 0

	attempts, err := Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	calls := 0

	attempts, err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("file in use")
		}
		return nil
	}, WithDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_Exhausted(t *testing.T) {
	t.Parallel()
	calls := 0
	var retried []int
	cause := errors.New("access denied")

	attempts, err := Do(context.Background(), func() error {
		calls++
		return cause
	},
		WithMaxRetries(10),
		WithDelay(time.Millisecond),
		WithOnRetry(func(attempt int, _ error) { retried = append(retried, attempt) }),
	)

	require.Error(t, err)
	// first attempt plus ten retries
	assert.Equal(t, 11, attempts)
	assert.Equal(t, 11, calls)
	assert.Len(t, retried, 10)
	assert.True(t, IsExhausted(err))
	assert.ErrorIs(t, err, cause)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 11, exhausted.Attempts)
}

func TestDo_ZeroRetries(t *testing.T) {
	t.Parallel()
	calls := 0

	attempts, err := Do(context.Background(), func() error {
		calls++
		return errors.New("nope")
	}, WithMaxRetries(0))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_FatalNotRetried(t *testing.T) {
	t.Parallel()
	calls := 0
	cause := errors.New("bad path")

	attempts, err := Do(context.Background(), func() error {
		calls++
		return Fatal(cause)
	}, WithDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, IsFatal(err))
	assert.False(t, IsExhausted(err))
	assert.ErrorIs(t, err, cause)
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	attempts, err := Do(ctx, func() error {
		calls++
		return errors.New("locked")
	}, WithDelay(time.Hour))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_ConstantDelay(t *testing.T) {
	t.Parallel()
	var stamps []time.Time

	_, err := Do(context.Background(), func() error {
		stamps = append(stamps, time.Now())
		return errors.New("again")
	},
		WithMaxRetries(2),
		WithDelay(5*time.Millisecond),
	)

	require.Error(t, err)
	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 5*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 5*time.Millisecond)
}

func TestFatal_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(nil))
}
