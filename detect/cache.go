package detect

import (
	"strings"
	"sync"

	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
)

// Key identifies one detection result: the field type plus the serialized
// selector list it was produced from. Changing either yields a distinct
// entry.
type Key struct {
	Field     fieldmap.FieldType
	Selectors string
}

// CacheKey builds the cache key for a field type and its selector list.
func CacheKey(ft fieldmap.FieldType, selectors []string) Key {
	return Key{Field: ft, Selectors: strings.Join(selectors, "|")}
}

// Cache stores detection results for the lifetime of a page. Eviction is
// manual only: entries live until Clear is called, never expire by time.
type Cache struct {
	mu      sync.Mutex
	entries map[Key][]Candidate
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key][]Candidate)}
}

// Get returns the cached candidates for key.
func (c *Cache) Get(key Key) ([]Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores candidates for key, replacing any previous entry.
func (c *Cache) Set(key Key, cands []Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cands
}

// Clear drops every entry. Called on significant document change and on
// teardown.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key][]Candidate)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
