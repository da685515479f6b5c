// Package auth carries the caller's identity into the caching and rate
// limiting layers.
//
// Authentication and authorization proper live outside this subsystem;
// this package only answers "who is calling": it verifies a bearer token
// into an Identity, attaches it to the request context, and exposes the
// anonymous sentinel the cache keys and limiter variants partition on.
package auth
