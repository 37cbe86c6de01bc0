package cache

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecmem/codec"
	"github.com/hupe1980/vecmem/internal/resource"
)

// Config configures a ResultCache.
type Config struct {
	// MaxSize is the maximum number of entries. Default: 100.
	MaxSize int

	// MaxAge is the TTL after which an entry is stale. Default: 5 minutes.
	MaxAge time.Duration

	// HitCountWeight balances hit frequency against age in the eviction
	// scores, in [0, 1]. Default: 0.3.
	HitCountWeight float64

	// Codec serializes results for memory estimation. Default: codec.Default.
	Codec codec.Codec

	// Controller optionally charges entry sizes against a byte budget.
	// A Set that cannot acquire budget is dropped.
	Controller *resource.Controller
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize:        100,
		MaxAge:         5 * time.Minute,
		HitCountWeight: 0.3,
	}
}

func (c *Config) applyDefaults() {
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 5 * time.Minute
	}
	if c.HitCountWeight <= 0 || c.HitCountWeight > 1 {
		c.HitCountWeight = 0.3
	}
	if c.Codec == nil {
		c.Codec = codec.Default
	}
}

// ConfigUpdate carries a partial reconfiguration; nil fields are unchanged.
type ConfigUpdate struct {
	MaxSize        *int
	MaxAge         *time.Duration
	HitCountWeight *float64
}

type entry[T any] struct {
	results   []T
	timestamp time.Time
	hits      int
	bytes     int64 // serialized results + key length, for accounting
}

// ResultCache caches query results keyed by strings from BuildKey.
// Safe for concurrent use.
type ResultCache[T any] struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*entry[T]
	enabled bool

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	memBytes  int64 // guarded by mu
}

// New creates a ResultCache with the given configuration.
func New[T any](cfg Config) *ResultCache[T] {
	cfg.applyDefaults()
	return &ResultCache[T]{
		cfg:     cfg,
		entries: make(map[string]*entry[T]),
		enabled: true,
	}
}

// Get returns the cached results for key. It reports a miss for unknown
// keys and for expired entries; expired entries are deleted on this check.
// Lookups never fail.
func (c *ResultCache[T]) Get(key string) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		c.misses.Add(1)
		return nil, false
	}

	ent, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if time.Since(ent.timestamp) > c.cfg.MaxAge {
		c.removeEntry(key, ent)
		c.misses.Add(1)
		return nil, false
	}

	ent.hits++
	c.hits.Add(1)

	out := make([]T, len(ent.results))
	copy(out, ent.results)
	return out, true
}

// Set stores a defensive copy of results under key. If the cache is at
// capacity a single entry is evicted first using the capacity eviction
// score. A Set that cannot acquire byte budget is dropped.
func (c *ResultCache[T]) Set(key string, results []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}

	if old, ok := c.entries[key]; ok {
		c.removeEntry(key, old)
	} else if len(c.entries) >= c.cfg.MaxSize {
		c.evictOldest()
	}

	stored := make([]T, len(results))
	copy(stored, results)

	ent := &entry[T]{
		results:   stored,
		timestamp: time.Now(),
		bytes:     c.estimateBytes(key, stored),
	}

	if !c.cfg.Controller.TryAcquireMemory(ent.bytes) {
		return
	}

	c.entries[key] = ent
	c.memBytes += ent.bytes
}

// Invalidate deletes all keys containing substr; an empty substring clears
// everything. Returns the number of entries removed.
func (c *ResultCache[T]) Invalidate(substr string) int {
	return c.InvalidateFunc(func(key string) bool {
		return strings.Contains(key, substr)
	})
}

// InvalidateRegexp deletes all keys matching re.
func (c *ResultCache[T]) InvalidateRegexp(re *regexp.Regexp) int {
	return c.InvalidateFunc(re.MatchString)
}

// InvalidateFunc deletes all keys matching the predicate.
func (c *ResultCache[T]) InvalidateFunc(predicate func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, ent := range c.entries {
		if predicate(key) {
			c.removeEntry(key, ent)
			removed++
		}
	}
	return removed
}

// Clear removes every entry.
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, ent := range c.entries {
		c.removeEntry(key, ent)
	}
}

// SetEnabled enables or disables the cache. Disabling clears all entries;
// re-enabling resumes normal operation.
func (c *ResultCache[T]) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !enabled {
		for key, ent := range c.entries {
			c.removeEntry(key, ent)
		}
	}
	c.enabled = enabled
}

// Enabled reports whether the cache is accepting entries.
func (c *ResultCache[T]) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// UpdateConfig applies a partial reconfiguration. Shrinking MaxSize evicts
// with the resize score until the cache fits; shrinking MaxAge sweeps
// expired entries immediately.
func (c *ResultCache[T]) UpdateConfig(u ConfigUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u.HitCountWeight != nil && *u.HitCountWeight > 0 && *u.HitCountWeight <= 1 {
		c.cfg.HitCountWeight = *u.HitCountWeight
	}

	if u.MaxSize != nil && *u.MaxSize > 0 {
		shrunk := *u.MaxSize < c.cfg.MaxSize
		c.cfg.MaxSize = *u.MaxSize
		if shrunk {
			c.evictIfNeeded()
		}
	}

	if u.MaxAge != nil && *u.MaxAge > 0 {
		shrunk := *u.MaxAge < c.cfg.MaxAge
		c.cfg.MaxAge = *u.MaxAge
		if shrunk {
			c.sweepExpired()
		}
	}
}

// Len returns the current number of entries.
func (c *ResultCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	HitRate     float64
	Size        int
	MemoryBytes int64
}

// Stats returns a snapshot of the cache counters. MemoryBytes is an
// estimate from serialized result sizes plus key lengths.
func (c *ResultCache[T]) Stats() Stats {
	c.mu.Lock()
	size := len(c.entries)
	memBytes := c.memBytes
	c.mu.Unlock()

	s := Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Size:        size,
		MemoryBytes: memBytes,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// capacityEvictionScore is the Set-time score: age + hitScore·w·maxAge, in
// seconds. The entry with the minimum score is evicted.
func (c *ResultCache[T]) capacityEvictionScore(ent *entry[T], now time.Time) float64 {
	age := now.Sub(ent.timestamp).Seconds()
	return age + hitScore(ent.hits)*c.cfg.HitCountWeight*c.cfg.MaxAge.Seconds()
}

// resizeEvictionScore is the reconfigure-time score: a normalized blend
// ageScore·(1-w) + hitScore·w. Kept distinct from the Set-time score.
func (c *ResultCache[T]) resizeEvictionScore(ent *entry[T], now time.Time) float64 {
	ageScore := now.Sub(ent.timestamp).Seconds() / c.cfg.MaxAge.Seconds()
	w := c.cfg.HitCountWeight
	return ageScore*(1-w) + hitScore(ent.hits)*w
}

func hitScore(hits int) float64 {
	if hits > 0 {
		return 1 / float64(hits)
	}
	return 1
}

// evictOldest evicts the single entry with the lowest capacity score.
// Must be called with the lock held.
func (c *ResultCache[T]) evictOldest() {
	now := time.Now()

	var victim string
	var victimEnt *entry[T]
	lowest := 0.0
	for key, ent := range c.entries {
		score := c.capacityEvictionScore(ent, now)
		if victimEnt == nil || score < lowest {
			victim, victimEnt, lowest = key, ent, score
		}
	}

	if victimEnt != nil {
		c.removeEntry(victim, victimEnt)
		c.evictions.Add(1)
	}
}

// evictIfNeeded evicts lowest-resize-score entries until the cache fits the
// configured MaxSize. Must be called with the lock held.
func (c *ResultCache[T]) evictIfNeeded() {
	now := time.Now()

	for len(c.entries) > c.cfg.MaxSize {
		var victim string
		var victimEnt *entry[T]
		lowest := 0.0
		for key, ent := range c.entries {
			score := c.resizeEvictionScore(ent, now)
			if victimEnt == nil || score < lowest {
				victim, victimEnt, lowest = key, ent, score
			}
		}
		if victimEnt == nil {
			return
		}
		c.removeEntry(victim, victimEnt)
		c.evictions.Add(1)
	}
}

// sweepExpired deletes every stale entry. Must be called with the lock held.
func (c *ResultCache[T]) sweepExpired() {
	now := time.Now()
	for key, ent := range c.entries {
		if now.Sub(ent.timestamp) > c.cfg.MaxAge {
			c.removeEntry(key, ent)
		}
	}
}

// removeEntry deletes an entry and releases its budget.
// Must be called with the lock held.
func (c *ResultCache[T]) removeEntry(key string, ent *entry[T]) {
	delete(c.entries, key)
	c.memBytes -= ent.bytes
	c.cfg.Controller.ReleaseMemory(ent.bytes)
}

func (c *ResultCache[T]) estimateBytes(key string, results []T) int64 {
	b, err := c.cfg.Codec.Marshal(results)
	if err != nil {
		return int64(len(key))
	}
	return int64(len(b) + len(key))
}
