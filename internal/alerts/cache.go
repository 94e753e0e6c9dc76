package alerts

import (
	"fmt"
	"sync"
	"time"
)

// CacheEntry is a cached alert set plus the identity and location it was
// computed for. FieldID is stored redundantly with the key so reads can
// verify they are not handed another field's data.
type CacheEntry struct {
	Bundle   *ForecastBundle
	FieldID  string
	Lat      float64
	Lng      float64
	CachedAt time.Time
}

// Cache holds computed alert sets keyed by (user, field). There is no TTL:
// entries are invalidated only by a field switch or an explicit refresh.
type Cache struct {
	data map[string]*CacheEntry
	mu   sync.RWMutex
}

// NewCache creates an empty alert cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string]*CacheEntry)}
}

// Key builds the (user, field) cache key.
func Key(userID, fieldID string) string {
	return fmt.Sprintf("%s:%s", userID, fieldID)
}

// Get returns the entry for (user, field) if present and its field identity
// matches the request.
func (c *Cache) Get(userID, fieldID string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[Key(userID, fieldID)]
	if !ok {
		return nil, false
	}
	if entry.FieldID != fieldID {
		return nil, false
	}
	return entry, true
}

// Set stores a computed alert set for (user, field).
func (c *Cache) Set(userID, fieldID string, lat, lng float64, bundle *ForecastBundle) *CacheEntry {
	entry := &CacheEntry{
		Bundle:   bundle,
		FieldID:  fieldID,
		Lat:      lat,
		Lng:      lng,
		CachedAt: time.Now(),
	}

	c.mu.Lock()
	c.data[Key(userID, fieldID)] = entry
	c.mu.Unlock()

	return entry
}

// Delete removes the entry for (user, field).
func (c *Cache) Delete(userID, fieldID string) {
	c.mu.Lock()
	delete(c.data, Key(userID, fieldID))
	c.mu.Unlock()
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Snapshot returns every cached key with its entry, for the background
// refresher.
func (c *Cache) Snapshot() map[string]*CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*CacheEntry, len(c.data))
	for key, entry := range c.data {
		out[key] = entry
	}
	return out
}
