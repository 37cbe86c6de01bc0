package vecmem

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/vecmem/memory"
)

// PrometheusCollector implements MetricsCollector backed by Prometheus
// metrics. Register it against an existing registry:
//
//	collector := vecmem.NewPrometheusCollector(prometheus.DefaultRegisterer)
//	planner := vecmem.New(vecmem.WithMetricsCollector(collector))
type PrometheusCollector struct {
	detections        *prometheus.CounterVec
	detectionDuration prometheus.Histogram
	availableBytes    prometheus.Gauge
	cacheBudgetBytes  prometheus.Gauge
	allocationRatio   prometheus.Gauge
	utilization       prometheus.Gauge
	pressureLevel     prometheus.Gauge
	pressureEvents    *prometheus.CounterVec
}

// NewPrometheusCollector creates a PrometheusCollector and registers its
// metrics with reg. Passing prometheus.DefaultRegisterer exposes them via the
// default handler.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		detections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vecmem",
			Name:      "memory_detections_total",
			Help:      "Memory detections by probe source.",
		}, []string{"source"}),
		detectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vecmem",
			Name:      "memory_detection_duration_seconds",
			Help:      "Time spent in the memory detection probe chain.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 10, 6),
		}),
		availableBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vecmem",
			Name:      "memory_available_bytes",
			Help:      "Detected memory available to the process.",
		}),
		cacheBudgetBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vecmem",
			Name:      "cache_budget_bytes",
			Help:      "Most recently computed cache byte budget.",
		}),
		allocationRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vecmem",
			Name:      "cache_allocation_ratio",
			Help:      "Effective fraction of available memory allocated to the cache.",
		}),
		utilization: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vecmem",
			Name:      "memory_utilization",
			Help:      "Combined heap and cache usage as a fraction of available memory.",
		}),
		pressureLevel: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vecmem",
			Name:      "memory_pressure_level",
			Help:      "Current pressure level: 0=none 1=moderate 2=high 3=critical.",
		}),
		pressureEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vecmem",
			Name:      "memory_pressure_events_total",
			Help:      "Pressure checks by resulting level.",
		}, []string{"level"}),
	}
}

// RecordDetection implements MetricsCollector.
func (p *PrometheusCollector) RecordDetection(source memory.Source, available uint64, duration time.Duration) {
	p.detections.WithLabelValues(string(source)).Inc()
	p.detectionDuration.Observe(duration.Seconds())
	p.availableBytes.Set(float64(available))
}

// RecordSizing implements MetricsCollector.
func (p *PrometheusCollector) RecordSizing(strategy memory.Strategy) {
	p.cacheBudgetBytes.Set(float64(strategy.CacheSize))
	p.allocationRatio.Set(strategy.Ratio)
}

// RecordPressure implements MetricsCollector.
func (p *PrometheusCollector) RecordPressure(pr memory.Pressure) {
	p.utilization.Set(pr.Utilization)
	p.pressureLevel.Set(float64(pr.Level))
	p.pressureEvents.WithLabelValues(pr.Level.String()).Inc()
}
