// Package vecmem provides adaptive memory management for embedded vector
// search workloads: it detects how much memory the process may actually use,
// reserves room for the embedding model, and turns the remainder into a safe
// cache budget.
//
// The same binary behaves sensibly on a developer laptop, inside a
// memory-limited container, and on a large bare-metal host. Detection walks
// cgroup v2, cgroup v1, then the host, and always produces an answer.
//
// # Quick Start
//
//	rec := vecmem.RecommendCacheConfig()
//	fmt.Println(rec.Strategy.CacheSize, rec.Strategy.Reasoning)
//
// A reusable Planner caches detection results and can watch memory pressure:
//
//	planner := vecmem.New(
//	    vecmem.WithModelPrecision(memory.PrecisionQ8),
//	    vecmem.WithMaxCacheSize(4<<30),
//	    vecmem.WithLogLevel(slog.LevelInfo),
//	)
//	rec := planner.Recommend()
//
//	cache := cache.New[SearchResult](cache.Config{
//	    MaxSize: 100,
//	    MaxAge:  5 * time.Minute,
//	})
//
//	monitor := vecmem.NewMonitor(planner, 30*time.Second, func() uint64 {
//	    return uint64(cache.Stats().MemoryBytes)
//	})
//	monitor.Start(ctx)
//	defer monitor.Close()
//
// # Packages
//
//   - memory: environment classification, memory detection, cache sizing,
//     pressure checks
//   - cache: TTL result cache with age/hit-count weighted eviction
//   - quantization: SQ8 per-vector compression with a compact wire format
//   - distance: exact and quantized similarity kernels
//   - codec: pluggable serialization for cache keys and size estimation
package vecmem
