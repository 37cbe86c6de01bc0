package resource

import (
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when the byte budget would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for tracked memory, typically the
	// cache budget produced by the sizer. If 0, no hard limit is enforced
	// (only tracking).
	MemoryLimitBytes int64

	// ProbesPerSecond caps how often environment probes (cgroup pseudo-file
	// reads, system memory queries) may run. If 0, probes are not throttled.
	ProbesPerSecond float64
}

// Controller tracks memory usage against a fixed byte budget and rate-limits
// environment probes. The zero-value-nil Controller is valid and unlimited.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	probeLimiter *rate.Limiter // nil if unthrottled
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.ProbesPerSecond > 0 {
		c.probeLimiter = rate.NewLimiter(rate.Limit(cfg.ProbesPerSecond), 1)
	}

	return c
}

// TryAcquireMemory attempts to reserve bytes against the budget without
// blocking. Returns false if the budget would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}
	c.memUsed.Add(bytes)
	return true
}

// AcquireMemory reserves bytes, returning ErrMemoryLimitExceeded if the
// budget would be exceeded. Non-blocking; callers control retry policy.
func (c *Controller) AcquireMemory(bytes int64) error {
	if !c.TryAcquireMemory(bytes) {
		return ErrMemoryLimitExceeded
	}
	return nil
}

// ReleaseMemory releases reserved bytes.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently tracked bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured byte budget (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AllowProbe reports whether an environment probe may run now.
// Denied probes should serve the previously detected result.
func (c *Controller) AllowProbe() bool {
	if c == nil || c.probeLimiter == nil {
		return true
	}
	return c.probeLimiter.AllowN(time.Now(), 1)
}
