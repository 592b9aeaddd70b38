package watcher

import (
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
)

// HashCache remembers a content digest per path so save events that do
// not change bytes (editors rewriting identical files, touch) produce
// no rebuild.
type HashCache struct {
	mu      sync.Mutex
	digests map[unique.Handle[string]]uint64
}

// NewHashCache creates an empty content hash cache.
func NewHashCache() *HashCache {
	return &HashCache{digests: make(map[unique.Handle[string]]uint64)}
}

// Changed filters paths down to those whose content actually differs
// from the cached digest. Unreadable paths always count as changed and
// drop out of the cache: a delete or rename must trigger a rebuild even
// when the file was never hashed before. New paths count as changed and
// enter the cache.
func (c *HashCache) Changed(paths []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := make([]string, 0, len(paths))
	for _, path := range paths {
		handle := unique.Make(path)

		data, err := os.ReadFile(path) //nolint:gosec // paths come from the watcher
		if err != nil {
			delete(c.digests, handle)
			changed = append(changed, path)
			continue
		}

		digest := xxhash.Sum64(data)
		if prev, known := c.digests[handle]; known && prev == digest {
			continue
		}
		c.digests[handle] = digest
		changed = append(changed, path)
	}
	return changed
}

// Forget drops every cached digest. Used when the pipeline rebuilds
// from scratch and stale digests would mask real changes.
func (c *HashCache) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digests = make(map[unique.Handle[string]]uint64)
}
