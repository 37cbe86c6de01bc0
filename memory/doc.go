// Package memory detects the memory actually available to the process and
// turns it into a safe cache byte budget.
//
// Detection copes with the environments a vector database actually runs in:
// bare metal, cgroup v1/v2 containers (Docker/Kubernetes), and serverless
// platforms. The probe chain is strictly best-effort: a missing pseudo-file,
// unparsable content, or an out-of-sanity-range value silently falls through
// to the next method, and the final fallback always succeeds. Over-reporting
// available memory is the failure mode that crashes hosts, so every parsed
// limit is sanity-checked before it is believed.
//
//	p := memory.NewProfiler(memory.ProfilerConfig{})
//	info := p.Detect()
//	strategy := memory.CalculateOptimalCacheSize(info, memory.SizerOptions{
//		Environment: memory.DetectEnvironment(memory.OSProbe{}),
//		ModelMemory: memory.DetectModelMemory(memory.PrecisionF32).Bytes,
//	})
//
// All environment access goes through the injectable EnvProbe so tests can
// substitute deterministic fixtures instead of mutating the real process
// environment.
package memory
