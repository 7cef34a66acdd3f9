package rolegate

import "sync"

// modelCache memoizes fitted pool clusterings. Entries are immutable once
// stored; the oldest entry is evicted when the cache is full.
type modelCache struct {
	mu    sync.Mutex
	max   int
	items map[uint64]*fitted
	order []uint64
}

type fitted struct {
	scaler     scaler
	clustering clustering
}

func newModelCache(max int) *modelCache {
	return &modelCache{max: max, items: make(map[uint64]*fitted)}
}

func (c *modelCache) get(key uint64) (*fitted, bool) {
	if c == nil || c.max <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.items[key]
	return f, ok
}

func (c *modelCache) put(key uint64, f *fitted) {
	if c == nil || c.max <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.items[key] = f
	c.order = append(c.order, key)
}

func (c *modelCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
