// Package store provides the byte-oriented key-value substrate for the
// response cache and rate limiter.
//
// It provides a Store interface with memory and Redis implementations,
// optional capability interfaces for key scanning, pattern deletion and
// advisory locking, and bounded per-call timeouts so a slow backend can
// never stall a request.
package store
