package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arialabs/aria/internal/models"
)

// Category TTLs, selected by tool-id substring.
const (
	TTLQuote    = 5 * time.Minute
	TTLNews     = 10 * time.Minute
	TTLCalendar = time.Hour
	TTLDefault  = time.Hour
)

// DefaultCapacity bounds the cache when the caller passes zero.
const DefaultCapacity = 100

type cachedEntry struct {
	result   models.ToolResult
	storedAt time.Time
}

// ResultCache is a bounded TTL cache for tool results keyed by
// (toolID, primaryEntity). When full, the oldest-inserted entry is
// evicted (insertion order, not LRU). Expiry is logical: stale entries
// are dropped on read, never swept eagerly.
type ResultCache struct {
	mu       sync.Mutex
	entries  map[string]*cachedEntry
	order    []string
	capacity int
	flight   singleflight.Group
}

// NewResultCache creates a cache bounded to capacity entries.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResultCache{
		entries:  make(map[string]*cachedEntry),
		capacity: capacity,
	}
}

// Key builds the canonical cache key for a tool invocation.
func Key(toolID, entity string) string {
	if entity == "" {
		entity = "_global"
	}
	return fmt.Sprintf("%s:%s", toolID, entity)
}

// TTLFor returns the category TTL for a tool id.
func TTLFor(toolID string) time.Duration {
	switch {
	case strings.Contains(toolID, "quote"):
		return TTLQuote
	case strings.Contains(toolID, "news"):
		return TTLNews
	case strings.Contains(toolID, "calendar"):
		return TTLCalendar
	default:
		return TTLDefault
	}
}

// Get returns the cached result for (toolID, entity) if present and not
// logically expired.
func (c *ResultCache) Get(toolID, entity string) (models.ToolResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(toolID, entity)
	entry, ok := c.entries[key]
	if !ok {
		return models.ToolResult{}, false
	}
	if time.Since(entry.storedAt) > TTLFor(toolID) {
		c.remove(key)
		return models.ToolResult{}, false
	}
	return entry.result, true
}

// Set stores a result, evicting the oldest-inserted entry when over
// capacity.
func (c *ResultCache) Set(toolID, entity string, result models.ToolResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(toolID, entity)
	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}

	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.remove(c.order[0])
	}

	c.entries[key] = &cachedEntry{result: result, storedAt: time.Now()}
	c.order = append(c.order, key)
}

// Fetch deduplicates concurrent misses on the same key: all callers for
// one key await a single execution of fn.
func (c *ResultCache) Fetch(toolID, entity string, fn func() (models.ToolResult, error)) (models.ToolResult, error) {
	v, err, _ := c.flight.Do(Key(toolID, entity), func() (any, error) {
		return fn()
	})
	if err != nil {
		return models.ToolResult{}, err
	}
	return v.(models.ToolResult), nil
}

// Len reports the number of live entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cachedEntry)
	c.order = nil
}

// remove must be called with the lock held.
func (c *ResultCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
