package ui

import (
	"hash/fnv"
	"strconv"
	"sync"
)

// RenderCache memoizes rendered blocks that no longer change, such as
// completed messages. When full, the oldest entry is evicted.
type RenderCache struct {
	mu      sync.Mutex
	entries map[uint64]string
	order   []uint64
	maxSize int
	hits    int
	misses  int
}

// NewRenderCache creates a cache holding at most maxSize entries.
func NewRenderCache(maxSize int) *RenderCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &RenderCache{
		entries: make(map[uint64]string, maxSize),
		maxSize: maxSize,
	}
}

// ComputeKey hashes the inputs that determine a rendering.
func ComputeKey(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return h.Sum64()
}

// GetOrCompute returns the cached rendering for key, computing and storing
// it on a miss.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	rc.mu.Lock()
	if v, ok := rc.entries[key]; ok {
		rc.hits++
		rc.mu.Unlock()
		return v
	}
	rc.misses++
	rc.mu.Unlock()

	v := compute()

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, ok := rc.entries[key]; !ok {
		if len(rc.order) >= rc.maxSize {
			oldest := rc.order[0]
			rc.order = rc.order[1:]
			delete(rc.entries, oldest)
		}
		rc.order = append(rc.order, key)
	}
	rc.entries[key] = v
	return v
}

// Clear empties the cache, e.g. after a theme change.
func (rc *RenderCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[uint64]string, rc.maxSize)
	rc.order = nil
}

// Len returns the number of cached entries.
func (rc *RenderCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// Stats returns hit and miss counts.
func (rc *RenderCache) Stats() (hits, misses int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits, rc.misses
}
