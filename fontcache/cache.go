// Package fontcache memoizes raw font file bytes so repeated stamp requests
// share a single load.
//
// The cache is populate-once: a key's bytes are loaded on first access and
// never invalidated. Concurrent first accesses are collapsed into one
// in-flight load, so a slow font fetch is never duplicated. Failed loads are
// not memoized; a later call retries.
package fontcache

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the raw bytes of a font program.
type LoadFunc func() ([]byte, error)

// Cache is a concurrency-safe, populate-once store of font bytes keyed by
// caller-chosen names. The zero value is not usable; call New.
type Cache struct {
	group singleflight.Group
	mu    sync.RWMutex
	data  map[string][]byte
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

// GetOrLoad returns the cached bytes for key, invoking load at most once per
// key across all concurrent callers. The returned slice is shared; callers
// must treat it as read-only.
func (c *Cache) GetOrLoad(key string, load LoadFunc) ([]byte, error) {
	c.mu.RLock()
	data, ok := c.data[key]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent loader may have finished while we queued.
		c.mu.RLock()
		data, ok := c.data[key]
		c.mu.RUnlock()
		if ok {
			return data, nil
		}

		loaded, err := load()
		if err != nil {
			return nil, err
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("fontcache: empty font data for %q", key)
		}

		c.mu.Lock()
		c.data[key] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// FileLoader returns a LoadFunc that reads the font file at path.
func FileLoader(path string) LoadFunc {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fontcache: reading %s: %w", path, err)
		}
		return data, nil
	}
}
