package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cache defines the interface for caching serialized values.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey generates a cache key for a literature search query. The key is
// stable across term order so alias permutations hit the same entry.
func SearchKey(terms []string, limit int) string {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)

	hash := sha256.Sum256([]byte(strings.Join(sorted, "\x1f")))
	return "crossgraph:v1:search:" + hex.EncodeToString(hash[:]) + ":" + strconv.Itoa(limit)
}
