package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aiprojectops/score-files/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("503"), Retryable: true}
		}
		return nil
	}, fastRetry(3))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := &RetryableError{Err: errors.New("400 bad request"), Retryable: false}
	err := WithRetry(context.Background(), func() error {
		calls++
		return permanent
	}, fastRetry(5))

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_SingleAttemptReturnsOriginalError(t *testing.T) {
	transient := &RetryableError{Err: errors.New("timeout"), Retryable: true}
	err := WithRetry(context.Background(), func() error { return transient }, fastRetry(1))

	require.ErrorIs(t, err, transient)
	assert.NotErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return ErrRateLimit
	}, fastRetry(2))

	require.ErrorIs(t, err, ErrMaxRetries)
	require.ErrorIs(t, err, ErrRateLimit)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastRetry(3)
	opts.InitialDelay = time.Hour
	opts.MaxDelay = time.Hour
	err := WithRetry(ctx, func() error {
		return &RetryableError{Err: errors.New("503"), Retryable: true}
	}, opts)

	require.ErrorIs(t, err, context.Canceled)
}

func TestIsStageFatal(t *testing.T) {
	assert.True(t, IsStageFatal(NewUserError("missing", ErrNotFound)))
	assert.True(t, IsStageFatal(ErrUnreadableFormat))
	assert.True(t, IsStageFatal(ErrNothingToEvaluate))
	assert.False(t, IsStageFatal(ErrInvalidConfig))
	assert.False(t, IsStageFatal(errors.New("boom")))
}
