package cache

import (
	"regexp"
	"time"
)

// Policy is the configuration surface for the caching layer: the TTL
// tiers handlers pick from and the URL pattern lists the selective
// middleware applies.
type Policy struct {
	// TTLShort is for search-like endpoints whose results churn quickly.
	TTLShort time.Duration

	// TTLMedium is for list endpoints.
	TTLMedium time.Duration

	// TTLLong is for detail endpoints.
	TTLLong time.Duration

	// MiddlewareTTL is the TTL the selective middleware stores at.
	// If zero, TTLMedium is used; if both are zero, the default medium
	// tier applies, so middleware entries always expire.
	MiddlewareTTL time.Duration

	// IncludePatterns are the paths the middleware may cache.
	IncludePatterns []*regexp.Regexp

	// ExcludePatterns are never cached, even when they also match an
	// include pattern.
	ExcludePatterns []*regexp.Regexp
}

// DefaultPolicy returns the production policy: 90s/180s/600s tiers and
// the public listing endpoints, with every principal-scoped or auth
// endpoint excluded.
func DefaultPolicy() Policy {
	return Policy{
		TTLShort:        90 * time.Second,
		TTLMedium:       180 * time.Second,
		TTLLong:         600 * time.Second,
		IncludePatterns: DefaultIncludePatterns(),
		ExcludePatterns: DefaultExcludePatterns(),
	}
}

// DefaultIncludePatterns lists the public, anonymous-safe listing
// endpoints.
func DefaultIncludePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^/api/auth/property/all/$`),
		regexp.MustCompile(`^/api/auth/property/featured/$`),
		regexp.MustCompile(`^/api/auth/property/\d+/similar/$`),
		regexp.MustCompile(`^/api/auth/property/search/$`),
		regexp.MustCompile(`^/api/auth/property/\d+/$`),
		regexp.MustCompile(`^/api/auth/event-place/all/$`),
		regexp.MustCompile(`^/api/auth/event-place/\d+/$`),
	}
}

// DefaultExcludePatterns lists endpoints that must never be served from a
// shared cache: auth flows and principal-scoped resources.
func DefaultExcludePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^/api/auth/login/`),
		regexp.MustCompile(`^/api/auth/register/`),
		regexp.MustCompile(`^/api/auth/logout/`),
		regexp.MustCompile(`^/api/auth/token/`),
		regexp.MustCompile(`^/api/auth/password-reset`),
		regexp.MustCompile(`^/api/auth/user/`),
		regexp.MustCompile(`^/api/auth/update/user/`),
		regexp.MustCompile(`^/api/auth/owner/`),
		regexp.MustCompile(`^/api/auth/meeting`),
		regexp.MustCompile(`^/api/auth/notifications`),
	}
}

// middlewareTTL resolves the effective middleware TTL. It never resolves
// to zero: a Policy with only patterns set must not store without expiry.
func (p Policy) middlewareTTL() time.Duration {
	if p.MiddlewareTTL > 0 {
		return p.MiddlewareTTL
	}
	if p.TTLMedium > 0 {
		return p.TTLMedium
	}
	return 180 * time.Second
}

// excluded reports whether path matches any exclude pattern.
func (p Policy) excluded(path string) bool {
	for _, re := range p.ExcludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// included reports whether path matches any include pattern.
func (p Policy) included(path string) bool {
	for _, re := range p.IncludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
