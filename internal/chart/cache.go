package chart

import (
	"container/list"
	"crypto/sha256"
	"sync"
)

// DefaultCacheSize is the number of replies whose chart info is remembered
const DefaultCacheSize = 128

// Cache memoizes chart extraction per reply content so that re-rendering the
// conversation does not re-parse every message. Returned Info values are
// shared and must not be mutated.
type Cache struct {
	extractor *Extractor
	size      int

	mu      sync.Mutex
	order   *list.List // front = most recently used
	entries map[[sha256.Size]byte]*list.Element
}

type cacheEntry struct {
	key  [sha256.Size]byte
	info Info
	// charted is the ContainsChartData result; Info is only computed when true
	charted bool
}

// NewCache creates a Cache around extractor. A nil extractor uses the default.
func NewCache(extractor *Extractor, size int) *Cache {
	if extractor == nil {
		extractor = defaultExtractor
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		extractor: extractor,
		size:      size,
		order:     list.New(),
		entries:   make(map[[sha256.Size]byte]*list.Element),
	}
}

// Lookup returns the chart info for content and whether the content should
// be drawn as a chart (pre-filter passed and data was found).
func (c *Cache) Lookup(content string) (Info, bool) {
	key := sha256.Sum256([]byte(content))

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		e := el.Value.(*cacheEntry)
		c.mu.Unlock()
		return e.info, e.charted && e.info.HasData()
	}
	c.mu.Unlock()

	entry := &cacheEntry{key: key}
	if ContainsChartData(content) {
		entry.charted = true
		entry.info = c.extractor.Extract(content)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		e := el.Value.(*cacheEntry)
		return e.info, e.charted && e.info.HasData()
	}
	c.entries[key] = c.order.PushFront(entry)
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return entry.info, entry.charted && entry.info.HasData()
}

// Len returns the number of cached replies
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
