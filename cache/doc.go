// Package cache provides read-through HTTP response caching with
// group-versioned invalidation.
//
// It provides deterministic length-bounded key building, per-group version
// counters whose bump orphans every previously issued key for the group,
// a per-route response wrapper, a selective middleware for anonymous GET
// traffic, and a glob-pattern invalidator as a coarse fallback.
//
// Every store failure degrades to a miss or a no-op: a caller can observe
// a slower response, never a caching error.
package cache
