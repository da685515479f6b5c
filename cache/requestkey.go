package cache

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jonwraymond/apicache/auth"
)

// anonPrincipal is the key component for unauthenticated callers.
const anonPrincipal = "anon"

// principalPart derives the key component identifying the caller:
// "user:<id>" for an authenticated principal, "anon" otherwise.
func principalPart(ctx context.Context) string {
	id := auth.IdentityFromContext(ctx)
	if id == nil || id.IsAnonymous() {
		return anonPrincipal
	}
	return "user:" + id.Principal
}

// RequestKey builds the cache key for an inbound request:
//
//	<prefix>:v<version>:<principal>:<path>?<query>
//
// The version is the current version of the prefix's invalidation group,
// so bumping the group silently orphans every key issued before the bump.
// Prefixes outside the recognized group set are unversioned (version 1).
//
// Keys longer than MaxKeyLength collapse to a hashed form that keeps the
// principal component, so even the degenerate form never aliases across
// users: <prefix>:<principal>:hash:<32 hex>.
func (g *Groups) RequestKey(ctx context.Context, prefix string, r *http.Request) string {
	principal := principalPart(r.Context())

	version := int64(1)
	if group := GroupForPrefix(prefix); group != "" {
		version = g.Version(ctx, group)
	}

	key := prefix + ":v" + strconv.FormatInt(version, 10) + ":" + principal +
		":" + r.URL.Path + "?" + r.URL.RawQuery
	if len(key) > MaxKeyLength {
		return prefix + ":" + principal + ":hash:" + hashKey(key)
	}
	return key
}
