package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_BurstThenBlocked(t *testing.T) {
	lim := New(Config{RequestsPerSecond: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, lim.Allow(), "request %d within burst should pass", i)
	}
	assert.False(t, lim.Allow(), "request beyond burst should be blocked")
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	lim := New(Config{RequestsPerSecond: 100, Burst: 1})

	require.True(t, lim.Allow())
	require.False(t, lim.Allow())

	time.Sleep(20 * time.Millisecond) // 100/s refills one token in 10ms
	assert.True(t, lim.Allow())
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	lim := New(Config{RequestsPerSecond: 0, Burst: 1})
	require.True(t, lim.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := lim.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManager_PerKeyIsolation(t *testing.T) {
	mgr := NewManager(Config{RequestsPerSecond: 1, Burst: 1})

	assert.True(t, mgr.Allow("10.0.0.1"))
	assert.False(t, mgr.Allow("10.0.0.1"))
	assert.True(t, mgr.Allow("10.0.0.2"), "a different key has its own bucket")
}

func TestManager_ReturnsSameLimiterForKey(t *testing.T) {
	mgr := NewManager(Config{RequestsPerSecond: 1, Burst: 1})
	assert.Same(t, mgr.GetLimiter("k"), mgr.GetLimiter("k"))
}
