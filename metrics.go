package vecmem

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecmem/memory"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; a ready-made
// Prometheus implementation is provided by NewPrometheusCollector.
type MetricsCollector interface {
	// RecordDetection is called after each memory detection.
	// source identifies the probe that answered, available is the detected
	// byte count, duration is the time the probe chain took.
	RecordDetection(source memory.Source, available uint64, duration time.Duration)

	// RecordSizing is called after each cache sizing decision.
	RecordSizing(strategy memory.Strategy)

	// RecordPressure is called after each pressure check.
	RecordPressure(p memory.Pressure)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDetection(memory.Source, uint64, time.Duration) {}
func (NoopMetricsCollector) RecordSizing(memory.Strategy)                         {}
func (NoopMetricsCollector) RecordPressure(memory.Pressure)                       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	DetectionCount      atomic.Int64
	DetectionTotalNanos atomic.Int64
	LastAvailable       atomic.Uint64
	SizingCount         atomic.Int64
	LastCacheSize       atomic.Uint64
	PressureCount       atomic.Int64
	PressureHighEvents  atomic.Int64
}

// RecordDetection implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDetection(_ memory.Source, available uint64, duration time.Duration) {
	b.DetectionCount.Add(1)
	b.DetectionTotalNanos.Add(duration.Nanoseconds())
	b.LastAvailable.Store(available)
}

// RecordSizing implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSizing(strategy memory.Strategy) {
	b.SizingCount.Add(1)
	b.LastCacheSize.Store(strategy.CacheSize)
}

// RecordPressure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPressure(p memory.Pressure) {
	b.PressureCount.Add(1)
	if p.Level >= memory.PressureHigh {
		b.PressureHighEvents.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DetectionCount:     b.DetectionCount.Load(),
		DetectionAvgNanos:  b.getAvgDetectionNanos(),
		LastAvailable:      b.LastAvailable.Load(),
		SizingCount:        b.SizingCount.Load(),
		LastCacheSize:      b.LastCacheSize.Load(),
		PressureCount:      b.PressureCount.Load(),
		PressureHighEvents: b.PressureHighEvents.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgDetectionNanos() int64 {
	count := b.DetectionCount.Load()
	if count == 0 {
		return 0
	}
	return b.DetectionTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DetectionCount     int64
	DetectionAvgNanos  int64
	LastAvailable      uint64
	SizingCount        int64
	LastCacheSize      uint64
	PressureCount      int64
	PressureHighEvents int64
}
