package memory

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/hupe1980/vecmem/internal/resource"
)

// Source identifies which probe produced a memory detection result.
type Source string

const (
	SourceCgroupV2 Source = "cgroup-v2"
	SourceCgroupV1 Source = "cgroup-v1"
	SourceSystem   Source = "system"
	SourceFallback Source = "fallback"
)

const (
	cgroupV2Path = "/sys/fs/cgroup/memory.max"
	cgroupV1Path = "/sys/fs/cgroup/memory/memory.limit_in_bytes"

	// Sanity bounds for a believable container memory limit. Values outside
	// this range are treated as misreads or kernel "unlimited" sentinels.
	minSaneLimit = 64 << 20  // 64MB
	maxSaneLimit = 1 << 40   // 1TB
	fallbackSize = 512 << 20 // conservative default when every probe fails
)

// Info describes the memory available to the process.
// Recomputed on demand; limits are assumed stable for the process lifetime
// but are re-probed whenever sizing logic runs.
type Info struct {
	// Available is the number of bytes the process may use.
	Available uint64
	// Source is the probe that produced Available.
	Source Source
	// IsContainer reports whether a container limit or marker was detected.
	IsContainer bool
	// SystemTotal and Free describe the host, independent of any limit.
	SystemTotal uint64
	Free        uint64
	// Warnings carries human-readable notes about the detection.
	Warnings []string
}

// ProfilerConfig configures a Profiler. The zero value is production-ready.
type ProfilerConfig struct {
	// Probe supplies environment access. Defaults to OSProbe.
	Probe EnvProbe

	// Controller optionally rate-limits re-probes; inside the limit window
	// Detect serves the previously detected Info.
	Controller *resource.Controller

	// SystemMemory overrides the host total/free query. Defaults to
	// gopsutil with a syscall fallback on Linux. Test seam.
	SystemMemory func() (total, free uint64, err error)
}

// Profiler detects memory available to the process across bare metal,
// cgroup v1/v2 containers, and serverless platforms.
type Profiler struct {
	probe  EnvProbe
	rc     *resource.Controller
	sysMem func() (total, free uint64, err error)

	mu   sync.Mutex
	last *Info
}

// NewProfiler creates a Profiler.
func NewProfiler(cfg ProfilerConfig) *Profiler {
	p := &Profiler{
		probe:  cfg.Probe,
		rc:     cfg.Controller,
		sysMem: cfg.SystemMemory,
	}
	if p.probe == nil {
		p.probe = OSProbe{}
	}
	if p.sysMem == nil {
		p.sysMem = systemMemory
	}
	return p
}

// Detect probes for the memory available to the process. It never fails:
// probe errors fall through to the next method and the final fallback always
// succeeds. When re-probes are throttled the last result is returned.
func (p *Profiler) Detect() Info {
	p.mu.Lock()
	defer p.mu.Unlock()

	allowed := p.rc.AllowProbe()
	if p.last != nil && !allowed {
		return *p.last
	}

	info := p.detect()
	p.last = &info
	return info
}

func (p *Profiler) detect() Info {
	sysTotal, sysFree, sysErr := p.sysMem()

	if limit, ok := p.readCgroupV2(); ok {
		return p.limitInfo(limit, SourceCgroupV2, sysTotal, sysFree)
	}

	if limit, ok := p.readCgroupV1(); ok {
		return p.limitInfo(limit, SourceCgroupV1, sysTotal, sysFree)
	}

	inContainer := containerMarkersPresent(p.probe)

	if sysErr == nil && sysTotal > 0 {
		info := Info{
			Available:   sysTotal,
			Source:      SourceSystem,
			IsContainer: inContainer,
			SystemTotal: sysTotal,
			Free:        sysFree,
		}
		if inContainer {
			info.Warnings = append(info.Warnings,
				"container markers present but no memory limit detected; using unbounded host memory")
		}
		return info
	}

	return Info{
		Available:   fallbackSize,
		Source:      SourceFallback,
		IsContainer: inContainer,
		Warnings:    []string{"system memory probe failed; assuming a conservative 512MB"},
	}
}

// readCgroupV2 reads the unified hierarchy limit. The literal "max" means
// unlimited; out-of-sanity-range values are treated as misreads. Both fall
// through.
func (p *Profiler) readCgroupV2() (uint64, bool) {
	raw, err := p.probe.ReadFile(cgroupV2Path)
	if err != nil {
		return 0, false
	}

	s := strings.TrimSpace(string(raw))
	if s == "max" {
		return 0, false
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v < minSaneLimit || v > maxSaneLimit {
		return 0, false
	}
	return v, true
}

// readCgroupV1 reads the legacy hierarchy limit. Values above 1TB are the
// kernel's "unlimited" sentinel; values below 64MB are treated as misreads.
func (p *Profiler) readCgroupV1() (uint64, bool) {
	raw, err := p.probe.ReadFile(cgroupV1Path)
	if err != nil {
		return 0, false
	}

	v, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil || v > maxSaneLimit || v < minSaneLimit {
		return 0, false
	}
	return v, true
}

func (p *Profiler) limitInfo(limit uint64, src Source, sysTotal, sysFree uint64) Info {
	info := Info{
		Available:   limit,
		Source:      src,
		IsContainer: true,
		SystemTotal: sysTotal,
		Free:        sysFree,
	}
	if sysTotal > 0 && limit < sysTotal {
		info.Warnings = append(info.Warnings, fmt.Sprintf(
			"memory limit %s is below host total %s", FormatBytes(limit), FormatBytes(sysTotal)))
	}
	return info
}

// systemMemory queries host total/free memory via gopsutil, falling back to
// a direct syscall where available.
func systemMemory() (uint64, uint64, error) {
	vm, err := mem.VirtualMemory()
	if err == nil && vm.Total > 0 {
		return vm.Total, vm.Available, nil
	}
	return sysinfoMemory(err)
}

// FormatBytes renders a byte count for warnings and reasoning strings.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(b)/float64(div), "KMGTPE"[exp])
}
