// Package resource tracks memory charged against the cache byte budget and
// throttles best-effort environment probes.
//
// The controller is deliberately non-blocking on the cache path: a Set that
// cannot acquire budget is dropped by the caller rather than queued, and
// probe throttling answers immediately with allow/deny so the profiler can
// serve its last result instead of waiting.
package resource
