// Package ratelimit provides sliding-window request limiting over the
// shared key-value store.
//
// Each limiter variant owns a scope, a quota, a window, and a key
// function deriving the limited identity (client IP for anonymous
// traffic, principal for authenticated traffic). Variants are evaluated
// independently; a request proceeds only when every variant accepts.
//
// The limit is soft: history updates are not compare-and-swapped, and a
// store failure always fails open. The only user-visible outcome is the
// deliberate 429 rejection.
package ratelimit
