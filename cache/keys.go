package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// MaxKeyLength is the longest key ever emitted. Joined forms that exceed
// it are replaced by a hashed fallback.
const MaxKeyLength = 250

// Param is a named key component. Params are sorted by name before
// joining, so callers may supply them in any order.
type Param struct {
	Name  string
	Value string
}

// BuildKey creates a deterministic cache key from a prefix, positional
// parts and named parts. Empty parts are skipped. The result is bounded
// at MaxKeyLength; longer joins collapse to "<prefix>:hash:<32 hex>".
func BuildKey(prefix string, parts []string, named ...Param) string {
	elems := make([]string, 0, 1+len(parts)+len(named))
	elems = append(elems, prefix)

	for _, p := range parts {
		if p != "" {
			elems = append(elems, p)
		}
	}

	if len(named) > 0 {
		sorted := make([]Param, len(named))
		copy(sorted, named)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		for _, p := range sorted {
			if p.Value != "" {
				elems = append(elems, p.Name+":"+p.Value)
			}
		}
	}

	key := strings.Join(elems, ":")
	if len(key) > MaxKeyLength {
		return prefix + ":hash:" + hashKey(key)
	}
	return key
}

// hashKey returns a 128-bit content hash as 32 hex characters.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}
