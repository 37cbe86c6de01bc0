// Package cache provides a keyed result cache for query results with TTL
// expiration and hybrid age/hit-count weighted eviction.
//
// The eviction policy is deliberately not a textbook LRU/LFU. Two named
// scoring strategies exist and must stay distinct:
//
//   - capacity eviction (at Set time when the cache is full) scores each
//     entry as age + hitScore·hitCountWeight·maxAge and evicts the minimum;
//   - resize eviction (when UpdateConfig shrinks MaxSize) scores each entry
//     as the normalized blend ageScore·(1-w) + hitScore·w and evicts minima
//     until the cache fits.
//
// Entries expire lazily: a Get that touches a stale entry deletes it and
// reports a miss. The data-mutation layer is expected to call Invalidate
// after writes that could stale cached results.
//
// The cache is safe for concurrent use. When a resource controller is
// configured, each entry's estimated serialized size is charged against the
// byte budget and a Set that would exceed it is dropped.
package cache
