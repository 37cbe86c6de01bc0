package vecmem

import (
	"log/slog"

	"github.com/hupe1980/vecmem/internal/resource"
	"github.com/hupe1980/vecmem/memory"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	probe            memory.EnvProbe
	environment      *memory.Environment
	precision        memory.Precision
	modelMemory      uint64
	manualSize       uint64
	minSize          uint64
	maxSize          uint64
	probesPerSecond  float64
	controller       *resource.Controller
}

// Option configures Planner behavior.
type Option func(*options)

// WithLogger configures structured logging for detection and sizing.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecmem.BasicMetricsCollector{}
//	planner := vecmem.New(vecmem.WithMetricsCollector(metrics))
//	planner.Recommend()
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithEnvProbe overrides environment access for detection. Used in tests to
// simulate cgroup files and platform environment variables.
func WithEnvProbe(probe memory.EnvProbe) Option {
	return func(o *options) {
		o.probe = probe
	}
}

// WithEnvironment pins the deployment environment instead of detecting it.
func WithEnvironment(env memory.Environment) Option {
	return func(o *options) {
		o.environment = &env
	}
}

// WithModelPrecision selects the embedding model precision used to reserve
// model memory before cache sizing. Default: memory.PrecisionF32.
func WithModelPrecision(p memory.Precision) Option {
	return func(o *options) {
		o.precision = p
	}
}

// WithModelMemory reserves an explicit byte count for the embedding engine,
// bypassing the precision-based estimate.
func WithModelMemory(bytes uint64) Option {
	return func(o *options) {
		o.modelMemory = bytes
	}
}

// WithManualCacheSize overrides cache sizing entirely. The value is still
// clamped to the minimum cache size.
func WithManualCacheSize(bytes uint64) Option {
	return func(o *options) {
		o.manualSize = bytes
	}
}

// WithMinCacheSize floors the computed cache budget.
// 0 means memory.DefaultMinCacheSize.
func WithMinCacheSize(bytes uint64) Option {
	return func(o *options) {
		o.minSize = bytes
	}
}

// WithMaxCacheSize caps the computed cache budget. 0 means no cap.
func WithMaxCacheSize(bytes uint64) Option {
	return func(o *options) {
		o.maxSize = bytes
	}
}

// WithProbeRateLimit throttles memory re-probes to at most n per second;
// throttled calls serve the previous detection result. 0 disables throttling.
func WithProbeRateLimit(n float64) Option {
	return func(o *options) {
		o.probesPerSecond = n
	}
}

// WithResourceController shares a resource controller between the planner's
// probe throttling and cache byte budgeting.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		precision:        memory.PrecisionF32,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
