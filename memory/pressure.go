package memory

import (
	"fmt"
	"runtime"
)

// PressureLevel classifies memory pressure from combined heap and cache
// usage against available memory.
type PressureLevel int

const (
	PressureNone PressureLevel = iota
	PressureModerate
	PressureHigh
	PressureCritical
)

func (l PressureLevel) String() string {
	switch l {
	case PressureNone:
		return "none"
	case PressureModerate:
		return "moderate"
	case PressureHigh:
		return "high"
	case PressureCritical:
		return "critical"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// Pressure is a point-in-time memory pressure reading.
type Pressure struct {
	Level       PressureLevel
	Utilization float64
	HeapUsed    uint64
	Warning     string
}

// Utilization thresholds for pressure classification.
const (
	pressureModerateAt = 0.70
	pressureHighAt     = 0.85
	pressureCriticalAt = 0.95
)

// CheckMemoryPressure computes (heapUsed + cacheSize) / available and
// classifies it. Intended to be polled periodically, not called once at
// startup; heap usage moves with the workload.
func CheckMemoryPressure(cacheSize uint64, info Info) Pressure {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return classifyPressure(ms.HeapAlloc, cacheSize, info)
}

func classifyPressure(heapUsed, cacheSize uint64, info Info) Pressure {
	p := Pressure{HeapUsed: heapUsed}
	if info.Available > 0 {
		p.Utilization = float64(heapUsed+cacheSize) / float64(info.Available)
	}

	switch {
	case p.Utilization >= pressureCriticalAt:
		p.Level = PressureCritical
		p.Warning = fmt.Sprintf(
			"critical memory pressure: %.0f%% of available memory in use; reduce cache size immediately",
			p.Utilization*100)
	case p.Utilization >= pressureHighAt:
		p.Level = PressureHigh
		p.Warning = fmt.Sprintf(
			"high memory pressure: %.0f%% of available memory in use; consider reducing cache size",
			p.Utilization*100)
	case p.Utilization >= pressureModerateAt:
		p.Level = PressureModerate
		p.Warning = fmt.Sprintf(
			"moderate memory pressure: %.0f%% of available memory in use", p.Utilization*100)
	default:
		p.Level = PressureNone
	}

	return p
}
