package workspace

import "sync"

// memParseCache is an in-memory, mutex-guarded parse cache keyed by
// (filename, last_modified), grounded on the teacher's internal/fscache
// entry cache (a guarded map of per-file entries), minus the
// document-URI/LSP concerns that package also carries (spec §6.3; see
// SPEC_FULL.md's dropped-dependency notes for why those are out of
// scope here).
type memParseCache struct {
	mu      sync.Mutex
	entries map[CacheKey]ParsedBlueprint
}

// NewMemParseCache returns an empty in-memory ParseCache.
func NewMemParseCache() ParseCache {
	return &memParseCache{entries: map[CacheKey]ParsedBlueprint{}}
}

func (c *memParseCache) Get(key CacheKey) (ParsedBlueprint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bp, ok := c.entries[key]
	return bp, ok
}

func (c *memParseCache) Put(key CacheKey, value ParsedBlueprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}
