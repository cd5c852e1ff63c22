package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Disabled(t *testing.T) {
	var rl *rateLimiter
	assert.NoError(t, rl.wait(context.Background()))
	assert.Nil(t, newRateLimiter(0))
	assert.Nil(t, newRateLimiter(-5))
}

func TestRateLimiter_SpacesRequests(t *testing.T) {
	rl := newRateLimiter(600)
	require.NotNil(t, rl)
	assert.Equal(t, 100*time.Millisecond, rl.interval)

	start := time.Now()
	require.NoError(t, rl.wait(context.Background()))
	require.NoError(t, rl.wait(context.Background()))
	require.NoError(t, rl.wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 190*time.Millisecond)
}

func TestRateLimiter_Canceled(t *testing.T) {
	rl := newRateLimiter(1)
	require.NoError(t, rl.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := rl.wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
