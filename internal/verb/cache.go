package verb

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores fetched conjugation records keyed by verb and tense so a
// verb is only requested from the content provider once. A zero TTL keeps
// entries for the lifetime of the process; a positive TTL lets go-cache's
// janitor evict stale entries.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates a cache with the given entry TTL. ttl <= 0 means
// entries never expire.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{store: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

// Key builds the composite cache key. The verb is trimmed and lowercased;
// accented characters are kept as-is since folding them would merge
// distinct verbs.
func Key(verb string, tense Tense) string {
	return strings.ToLower(strings.TrimSpace(verb)) + "|" + string(tense)
}

// Get returns the cached record for (verb, tense) if present.
func (c *Cache) Get(verb string, tense Tense) (Data, bool) {
	v, ok := c.store.Get(Key(verb, tense))
	if !ok {
		return Data{}, false
	}
	data, ok := v.(Data)
	return data, ok
}

// Put stores a record under (verb, tense), replacing any previous entry.
func (c *Cache) Put(verb string, tense Tense, data Data) {
	c.store.Set(Key(verb, tense), data, gocache.DefaultExpiration)
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
