package di

import (
	"sync"
)

// cachedInstance holds a value created at most once.
type cachedInstance struct {
	value any
	err   error
	once  sync.Once
}

// instanceCache backs singletons (per container) and scoped services (per scope).
type instanceCache struct {
	instances map[*Descriptor]*cachedInstance
	mu        sync.RWMutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[*Descriptor]*cachedInstance),
	}
}

// getOrCreate returns the cached value for d, calling create exactly once
// even under concurrent access. The lock is not held while create runs, so
// create may resolve other cached services.
func (c *instanceCache) getOrCreate(d *Descriptor, create func() (any, error)) (any, error) {
	c.mu.RLock()
	entry, ok := c.instances[d]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		entry, ok = c.instances[d]
		if !ok {
			entry = &cachedInstance{}
			c.instances[d] = entry
		}
		c.mu.Unlock()
	}

	entry.once.Do(func() {
		entry.value, entry.err = create()
	})

	return entry.value, entry.err
}
