package vecmem

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/vecmem/memory"
)

// Monitor periodically checks memory pressure for a live cache and reports
// it through the planner's logger and metrics collector. An optional callback
// lets callers react, for example by shrinking the cache.
type Monitor struct {
	planner    *Planner
	interval   time.Duration
	cacheSize  func() uint64
	onPressure func(memory.Pressure)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewMonitor creates a Monitor. cacheSize is polled on every tick and should
// return the cache's current byte usage, for example from cache Stats.
func NewMonitor(planner *Planner, interval time.Duration, cacheSize func() uint64) *Monitor {
	return &Monitor{
		planner:   planner,
		interval:  interval,
		cacheSize: cacheSize,
	}
}

// OnPressure registers a callback invoked after every pressure check.
// Must be called before Start.
func (m *Monitor) OnPressure(fn func(memory.Pressure)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPressure = fn
}

// Start begins periodic pressure checks until ctx is canceled or Close is
// called. The first check runs on the first tick, not immediately.
func (m *Monitor) Start(ctx context.Context) error {
	if m.interval <= 0 {
		return ErrInvalidInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return ErrMonitorStarted
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.started = true

	go m.run(ctx)
	return nil
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check()
		}
	}
}

func (m *Monitor) check() {
	pr := m.planner.Pressure(m.cacheSize())

	m.mu.Lock()
	fn := m.onPressure
	m.mu.Unlock()
	if fn != nil {
		fn(pr)
	}
}

// Close stops the monitor and waits for the check loop to exit.
// Close is idempotent.
func (m *Monitor) Close() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
}
