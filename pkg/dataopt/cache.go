package dataopt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/buntdb"
)

// Cache is a bounded key/value store with per-entry TTL, backed by an
// in-memory buntdb. Expiry is lazy: an expired entry is surfaced as a
// miss on read. When the cache is at capacity the oldest-inserted
// entry is evicted, regardless of access recency.
//
// A single Cache is shared by all chart instances of a session, so
// callers must namespace their keys (the chart prefixes them with the
// task id).
type Cache struct {
	mu      sync.Mutex
	db      *buntdb.DB
	maxSize int
	order   []string
	present map[string]struct{}
}

// NewCache opens an in-memory cache holding at most maxSize entries.
func NewCache(maxSize int) (*Cache, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxSize)
	}

	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	return &Cache{
		db:      db,
		maxSize: maxSize,
		present: make(map[string]struct{}),
	}, nil
}

// Set stores a value under key with the given TTL, evicting the
// oldest-inserted entry first when the cache is full.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	content, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.present[key]; !ok && len(c.order) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.present, oldest)

		err := c.db.Update(func(tx *buntdb.Tx) error {
			_, err := tx.Delete(oldest)
			return err
		})
		if err != nil && err != buntdb.ErrNotFound {
			return fmt.Errorf("failed to evict cache entry: %w", err)
		}
	}

	err = c.db.Update(func(tx *buntdb.Tx) error {
		opts := &buntdb.SetOptions{Expires: true, TTL: ttl}
		_, _, err := tx.Set(key, string(content), opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	if _, ok := c.present[key]; !ok {
		c.order = append(c.order, key)
		c.present[key] = struct{}{}
	}

	return nil
}

// Delete removes a key. Missing keys are not an error.
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forget(key)

	err := c.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if err != nil && err != buntdb.ErrNotFound {
		return err
	}
	return nil
}

// Len returns the number of tracked entries, including any whose TTL
// elapsed but which have not been read since.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Close releases the backing store.
func (c *Cache) Close() error { return c.db.Close() }

// forget drops bookkeeping for a key. Caller holds the lock.
func (c *Cache) forget(key string) {
	if _, ok := c.present[key]; !ok {
		return
	}
	delete(c.present, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// lookup reads the raw entry, treating expiry as a miss.
func (c *Cache) lookup(key string) (string, bool) {
	var raw string
	err := c.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		raw = v
		return err
	})
	if err != nil {
		c.mu.Lock()
		c.forget(key)
		c.mu.Unlock()
		return "", false
	}
	return raw, true
}

// Get returns the cached value for key, or the zero value and false
// when the key is absent or its TTL elapsed.
func Get[T any](c *Cache, key string) (T, bool) {
	var value T

	raw, ok := c.lookup(key)
	if !ok {
		return value, false
	}

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, false
	}
	return value, true
}

// GetOrSet returns the cached value when present; otherwise it invokes
// the producer, caches the result under the given TTL and returns it.
// Producer failures propagate to the caller and are not cached.
func GetOrSet[T any](c *Cache, key string, ttl time.Duration, producer func() (T, error)) (T, error) {
	if value, ok := Get[T](c, key); ok {
		return value, nil
	}

	value, err := producer()
	if err != nil {
		return value, err
	}

	if err := c.Set(key, value, ttl); err != nil {
		return value, err
	}
	return value, nil
}
