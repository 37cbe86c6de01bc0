package memory

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecmem/internal/resource"
)

// fixtureProbe is a deterministic EnvProbe for tests.
type fixtureProbe struct {
	env   map[string]string
	files map[string]string
}

func (f *fixtureProbe) Getenv(key string) string { return f.env[key] }

func (f *fixtureProbe) ReadFile(path string) ([]byte, error) {
	if content, ok := f.files[path]; ok {
		return []byte(content), nil
	}
	return nil, os.ErrNotExist
}

func (f *fixtureProbe) FileExists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func stubSystemMemory(total, free uint64) func() (uint64, uint64, error) {
	return func() (uint64, uint64, error) { return total, free, nil }
}

func newTestProfiler(probe EnvProbe, sysMem func() (uint64, uint64, error)) *Profiler {
	return NewProfiler(ProfilerConfig{Probe: probe, SystemMemory: sysMem})
}

func TestDetect_CgroupV2Limit(t *testing.T) {
	probe := &fixtureProbe{files: map[string]string{
		cgroupV2Path: "536870912\n",
	}}
	p := newTestProfiler(probe, stubSystemMemory(16<<30, 8<<30))

	info := p.Detect()
	assert.Equal(t, uint64(536870912), info.Available)
	assert.Equal(t, SourceCgroupV2, info.Source)
	assert.True(t, info.IsContainer)
	assert.Equal(t, uint64(16<<30), info.SystemTotal)
}

func TestDetect_CgroupV2Max_FallsThroughToSystem(t *testing.T) {
	probe := &fixtureProbe{files: map[string]string{
		cgroupV2Path: "max\n",
	}}
	p := newTestProfiler(probe, stubSystemMemory(16<<30, 8<<30))

	info := p.Detect()
	assert.Equal(t, SourceSystem, info.Source)
	assert.Equal(t, uint64(16<<30), info.Available)
	assert.False(t, info.IsContainer)
}

func TestDetect_CgroupV2OutOfRange_FallsThrough(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"below sanity floor", "1048576"},          // 1MB, misread
		{"above sanity ceiling", "2199023255552"},  // 2TB
		{"garbage", "not-a-number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &fixtureProbe{files: map[string]string{
				cgroupV2Path: tt.value,
			}}
			p := newTestProfiler(probe, stubSystemMemory(8<<30, 4<<30))

			info := p.Detect()
			assert.Equal(t, SourceSystem, info.Source)
		})
	}
}

func TestDetect_CgroupV1Limit(t *testing.T) {
	probe := &fixtureProbe{files: map[string]string{
		cgroupV1Path: "268435456\n",
	}}
	p := newTestProfiler(probe, stubSystemMemory(16<<30, 8<<30))

	info := p.Detect()
	assert.Equal(t, uint64(268435456), info.Available)
	assert.Equal(t, SourceCgroupV1, info.Source)
	assert.True(t, info.IsContainer)
}

func TestDetect_CgroupV1UnlimitedSentinel_FallsThrough(t *testing.T) {
	// The kernel reports "no limit" as a huge page-rounded value.
	probe := &fixtureProbe{files: map[string]string{
		cgroupV1Path: "9223372036854771712",
	}}
	p := newTestProfiler(probe, stubSystemMemory(16<<30, 8<<30))

	info := p.Detect()
	assert.Equal(t, SourceSystem, info.Source)
}

func TestDetect_V2PreferredOverV1(t *testing.T) {
	probe := &fixtureProbe{files: map[string]string{
		cgroupV2Path: "536870912",
		cgroupV1Path: "268435456",
	}}
	p := newTestProfiler(probe, stubSystemMemory(16<<30, 8<<30))

	info := p.Detect()
	assert.Equal(t, SourceCgroupV2, info.Source)
	assert.Equal(t, uint64(536870912), info.Available)
}

func TestDetect_LimitBelowHostTotal_Warns(t *testing.T) {
	probe := &fixtureProbe{files: map[string]string{
		cgroupV2Path: "536870912",
	}}
	p := newTestProfiler(probe, stubSystemMemory(64<<30, 32<<30))

	info := p.Detect()
	require.Len(t, info.Warnings, 1)
	assert.Contains(t, info.Warnings[0], "below host total")
}

func TestDetect_ContainerMarkersWithoutLimit_Warns(t *testing.T) {
	probe := &fixtureProbe{
		env:   map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"},
		files: map[string]string{},
	}
	p := newTestProfiler(probe, stubSystemMemory(16<<30, 8<<30))

	info := p.Detect()
	assert.Equal(t, SourceSystem, info.Source)
	assert.True(t, info.IsContainer)
	require.Len(t, info.Warnings, 1)
	assert.Contains(t, info.Warnings[0], "unbounded host memory")
}

func TestDetect_EverythingFails_Fallback(t *testing.T) {
	probe := &fixtureProbe{files: map[string]string{}}
	p := newTestProfiler(probe, func() (uint64, uint64, error) {
		return 0, 0, errors.New("probe unavailable")
	})

	info := p.Detect()
	assert.Equal(t, SourceFallback, info.Source)
	assert.Equal(t, uint64(512<<20), info.Available)
	assert.NotEmpty(t, info.Warnings)
}

func TestDetect_ThrottledReprobeServesLastResult(t *testing.T) {
	probe := &fixtureProbe{files: map[string]string{
		cgroupV2Path: "536870912",
	}}
	rc := resource.NewController(resource.Config{ProbesPerSecond: 0.001})
	p := NewProfiler(ProfilerConfig{
		Probe:        probe,
		Controller:   rc,
		SystemMemory: stubSystemMemory(16<<30, 8<<30),
	})

	first := p.Detect()
	require.Equal(t, SourceCgroupV2, first.Source)

	// The limit "changes" but the re-probe is throttled.
	probe.files[cgroupV2Path] = "268435456"
	second := p.Detect()
	assert.Equal(t, first.Available, second.Available)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512B", FormatBytes(512))
	assert.Equal(t, "256.0MB", FormatBytes(256<<20))
	assert.Equal(t, "2.0GB", FormatBytes(2<<30))
}
