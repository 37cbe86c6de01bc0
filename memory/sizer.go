package memory

import (
	"fmt"
	"math"
)

// DefaultMinCacheSize is the floor for any computed cache budget.
const DefaultMinCacheSize = 256 << 20 // 256MB

const (
	largeHostThreshold = 64 << 30 // beyond this, ratio allocation is scaled down
	largeHostBase      = 32 << 30
	largeHostStep      = 8 << 30
)

// Allocation ratios by deployment environment.
const (
	ratioDevelopment = 0.25
	ratioContainer   = 0.40
	ratioProduction  = 0.50
)

// SizerOptions configures a cache sizing decision.
type SizerOptions struct {
	// Environment selects the allocation ratio.
	Environment Environment

	// ModelMemory is reserved for the embedding engine before sizing.
	ModelMemory uint64

	// ManualSize overrides the computation entirely (still clamped to
	// MinSize). 0 means no override.
	ManualSize uint64

	// MinSize floors the budget. 0 means DefaultMinCacheSize.
	MinSize uint64

	// MaxSize caps the budget. 0 means no cap.
	MaxSize uint64
}

// Strategy is the outcome of one cache sizing decision. It is a value
// object: constructed once, never mutated. Reasoning accumulates a clause
// for every adjustment applied so operators can audit why the budget is
// what it is.
type Strategy struct {
	CacheSize         uint64
	Ratio             float64
	MinSize           uint64
	MaxSize           uint64
	Environment       Environment
	ModelMemory       uint64
	AvailableForCache uint64
	Reasoning         string
	Warnings          []string
}

// CalculateOptimalCacheSize computes a safe cache byte budget from detected
// memory and the deployment environment.
//
// The budget must never over-allocate: the model reservation comes off the
// top, the environment ratio keeps headroom for the rest of the process, and
// very large hosts are scaled down logarithmically so a ratio of half does
// not claim hundreds of gigabytes.
func CalculateOptimalCacheSize(info Info, opts SizerOptions) Strategy {
	minSize := opts.MinSize
	if minSize == 0 {
		minSize = DefaultMinCacheSize
	}

	var available uint64
	if info.Available > opts.ModelMemory {
		available = info.Available - opts.ModelMemory
	}

	s := Strategy{
		MinSize:           minSize,
		MaxSize:           opts.MaxSize,
		Environment:       opts.Environment,
		ModelMemory:       opts.ModelMemory,
		AvailableForCache: available,
	}

	if opts.ManualSize > 0 {
		s.CacheSize = max(opts.ManualSize, minSize)
		if available > 0 {
			s.Ratio = float64(s.CacheSize) / float64(available)
		}
		s.Reasoning = "Manual override specified"
		return s
	}

	var reasoning string
	switch opts.Environment {
	case EnvironmentDevelopment:
		s.Ratio = ratioDevelopment
		reasoning = "Development mode: conservative 25% allocation"
	case EnvironmentContainer, EnvironmentServerless:
		s.Ratio = ratioContainer
		reasoning = "Container environment: 40% of available memory"
	default:
		s.Ratio = ratioProduction
		reasoning = "Production environment: 50% of available memory"
	}

	size := uint64(float64(available) * s.Ratio)

	if size < minSize {
		size = minSize
		reasoning += fmt.Sprintf("; raised to minimum %s", FormatBytes(minSize))
		if available < 2*minSize {
			s.Warnings = append(s.Warnings, fmt.Sprintf(
				"low memory: %s available for cache is below twice the minimum cache size",
				FormatBytes(available)))
		}
	}

	if opts.MaxSize > 0 && size > opts.MaxSize {
		size = opts.MaxSize
		reasoning += fmt.Sprintf("; capped at configured maximum %s", FormatBytes(opts.MaxSize))
	}

	if available > largeHostThreshold {
		scaled := largeHostBase + math.Log2(float64(available)/float64(largeHostThreshold))*largeHostStep
		if scaled < float64(size) {
			size = uint64(scaled)
			reasoning += "; large-host logarithmic scale-down applied"
		}
	}

	s.CacheSize = size
	s.Reasoning = reasoning
	return s
}

// Recommendation bundles a sizing decision with the memory detection that
// produced it and every warning raised along the way.
type Recommendation struct {
	Strategy Strategy
	Info     Info
	Warnings []string
}

// RecommendedCacheConfig probes memory and sizes the cache in one step,
// aggregating profiler warnings, a note when the budget sits at the
// configured minimum, and a note when the effective ratio is unusually high.
func RecommendedCacheConfig(p *Profiler, opts SizerOptions) Recommendation {
	info := p.Detect()
	strategy := CalculateOptimalCacheSize(info, opts)

	warnings := make([]string, 0, len(info.Warnings)+len(strategy.Warnings)+2)
	warnings = append(warnings, info.Warnings...)
	warnings = append(warnings, strategy.Warnings...)

	if strategy.CacheSize == strategy.MinSize {
		warnings = append(warnings, "cache size is at the configured minimum")
	}
	if strategy.Ratio > 0.6 {
		warnings = append(warnings, fmt.Sprintf(
			"high memory utilization: cache would use %.0f%% of available memory", strategy.Ratio*100))
	}

	return Recommendation{Strategy: strategy, Info: info, Warnings: warnings}
}
