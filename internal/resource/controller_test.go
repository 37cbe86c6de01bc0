package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_MemoryBudget(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	assert.True(t, c.TryAcquireMemory(60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	assert.False(t, c.TryAcquireMemory(50), "would exceed budget")
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(100))
}

func TestController_AcquireMemoryError(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	require.NoError(t, c.AcquireMemory(10))
	require.ErrorIs(t, c.AcquireMemory(1), ErrMemoryLimitExceeded)
}

func TestController_UnlimitedTracking(t *testing.T) {
	c := NewController(Config{})

	assert.True(t, c.TryAcquireMemory(1<<40), "no limit configured")
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	assert.True(t, c.TryAcquireMemory(100))
	c.ReleaseMemory(100)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.AllowProbe())
}

func TestController_ProbeThrottle(t *testing.T) {
	c := NewController(Config{ProbesPerSecond: 1})

	assert.True(t, c.AllowProbe())
	assert.False(t, c.AllowProbe(), "second probe inside the window is denied")

	time.Sleep(1100 * time.Millisecond)
	assert.True(t, c.AllowProbe())
}

func TestController_ZeroAndNegativeBytes(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	assert.True(t, c.TryAcquireMemory(0))
	assert.True(t, c.TryAcquireMemory(-5))
	assert.Equal(t, int64(0), c.MemoryUsage())

	c.ReleaseMemory(0)
	c.ReleaseMemory(-5)
	assert.Equal(t, int64(0), c.MemoryUsage())
}
