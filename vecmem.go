package vecmem

import (
	"context"
	"time"

	"github.com/hupe1980/vecmem/internal/resource"
	"github.com/hupe1980/vecmem/memory"
)

// Planner detects the deployment environment and available memory, reserves
// room for the embedding model, and computes cache budgets. It is safe for
// concurrent use and caches detection results when probing is throttled.
type Planner struct {
	opts     options
	profiler *memory.Profiler
	env      memory.Environment
	model    memory.ModelEstimate
}

// New creates a Planner. The environment is classified once at construction;
// memory is re-probed on every Recommend unless throttled.
func New(optFns ...Option) *Planner {
	opts := applyOptions(optFns)

	rc := opts.controller
	if rc == nil && opts.probesPerSecond > 0 {
		rc = resource.NewController(resource.Config{ProbesPerSecond: opts.probesPerSecond})
	}

	env := memory.DetectEnvironment(opts.probe)
	if opts.environment != nil {
		env = *opts.environment
	}

	model := memory.ModelEstimate{Bytes: opts.modelMemory, Precision: opts.precision}
	if opts.modelMemory == 0 {
		model = memory.DetectModelMemory(opts.precision)
	}

	return &Planner{
		opts: opts,
		profiler: memory.NewProfiler(memory.ProfilerConfig{
			Probe:      opts.probe,
			Controller: rc,
		}),
		env:   env,
		model: model,
	}
}

// Environment returns the deployment environment the planner operates in.
func (p *Planner) Environment() memory.Environment { return p.env }

// ModelMemory returns the byte reservation for the embedding engine.
func (p *Planner) ModelMemory() memory.ModelEstimate { return p.model }

// Detect probes for available memory. It never fails.
func (p *Planner) Detect() memory.Info {
	start := time.Now()
	info := p.profiler.Detect()
	p.opts.metricsCollector.RecordDetection(info.Source, info.Available, time.Since(start))
	p.opts.logger.LogDetection(context.Background(), info)
	return info
}

// Recommend probes memory and computes a cache budget in one step.
func (p *Planner) Recommend() memory.Recommendation {
	start := time.Now()
	rec := memory.RecommendedCacheConfig(p.profiler, p.sizerOptions())
	p.opts.metricsCollector.RecordDetection(rec.Info.Source, rec.Info.Available, time.Since(start))
	p.opts.metricsCollector.RecordSizing(rec.Strategy)

	ctx := context.Background()
	p.opts.logger.LogDetection(ctx, rec.Info)
	p.opts.logger.LogSizing(ctx, rec.Strategy)
	return rec
}

// Pressure checks memory pressure for a cache of the given size against the
// most recent detection.
func (p *Planner) Pressure(cacheSize uint64) memory.Pressure {
	pr := memory.CheckMemoryPressure(cacheSize, p.profiler.Detect())
	p.opts.metricsCollector.RecordPressure(pr)
	p.opts.logger.LogPressure(context.Background(), pr)
	return pr
}

func (p *Planner) sizerOptions() memory.SizerOptions {
	return memory.SizerOptions{
		Environment: p.env,
		ModelMemory: p.model.Bytes,
		ManualSize:  p.opts.manualSize,
		MinSize:     p.opts.minSize,
		MaxSize:     p.opts.maxSize,
	}
}

// RecommendCacheConfig is a one-shot convenience: detect everything with
// default options and return a cache sizing recommendation.
func RecommendCacheConfig(optFns ...Option) memory.Recommendation {
	return New(optFns...).Recommend()
}
