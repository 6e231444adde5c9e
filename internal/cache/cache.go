// Package cache provides a small TTL cache for upstream catalog responses.
// Entries live in a bbolt file and are promoted to a bounded in-memory LRU on
// first read.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	bolt "go.etcd.io/bbolt"
)

// DefaultMemoryEntries bounds the in-memory layer when no size is given
const DefaultMemoryEntries = 1024

var bucketEntries = []byte("entries")

// entry is the stored envelope around a cached JSON value
type entry struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Value     json.RawMessage `json:"value"`
}

// Cache is a TTL cache backed by bbolt with an in-memory hot layer.
// A nil *Cache is valid and never hits.
type Cache struct {
	db     *bolt.DB
	ttl    time.Duration
	now    func() time.Time
	memory *lru.Cache[string, entry]
}

// Open opens (or creates) the cache file at path. An empty path gives a
// memory-only cache. memoryEntries bounds the in-memory layer; values below
// one use DefaultMemoryEntries. Expired entries left in the file are dropped.
func Open(path string, ttl time.Duration, memoryEntries int) (*Cache, error) {
	if memoryEntries < 1 {
		memoryEntries = DefaultMemoryEntries
	}
	memory, err := lru.New[string, entry](memoryEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	c := &Cache{
		ttl:    ttl,
		now:    time.Now,
		memory: memory,
	}
	if path == "" {
		return c, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	c.db = db
	if err := c.sweep(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to sweep expired entries: %w", err)
	}
	return c, nil
}

// sweep deletes expired or unreadable entries from the file
func (c *Cache) sweep() error {
	now := c.now()
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var e entry
			if json.Unmarshal(v, &e) != nil || !now.Before(e.ExpiresAt) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the bbolt file
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Len returns the number of entries held in memory
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.memory.Len()
}

// Get decodes a live entry for key into dest and reports whether it was found
func (c *Cache) Get(key string, dest any) bool {
	if c == nil {
		return false
	}

	e, ok := c.memory.Get(key)
	if !ok && c.db != nil {
		var data []byte
		_ = c.db.View(func(tx *bolt.Tx) error {
			if v := tx.Bucket(bucketEntries).Get([]byte(key)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
		if data != nil && json.Unmarshal(data, &e) == nil {
			ok = true
			c.memory.Add(key, e)
		}
	}

	if !ok {
		return false
	}
	if !c.now().Before(e.ExpiresAt) {
		c.Delete(key)
		return false
	}
	return json.Unmarshal(e.Value, dest) == nil
}

// Set stores value under key for the cache TTL
func (c *Cache) Set(key string, value any) error {
	if c == nil {
		return nil
	}
	return c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key for ttl
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	e := entry{ExpiresAt: c.now().Add(ttl), Value: raw}
	c.memory.Add(key, e)

	if c.db == nil {
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), data)
	})
}

// Delete removes key from both layers
func (c *Cache) Delete(key string) {
	if c == nil {
		return
	}

	c.memory.Remove(key)

	if c.db == nil {
		return
	}
	_ = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Delete([]byte(key))
	})
}
