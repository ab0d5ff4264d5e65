// Package decodecache memoizes Decode results for hosts that re-read the
// same settings payload frequently (e.g. a client polling its settings
// entry on a timer). Entries are keyed by a content hash of the raw
// bytes, so a changed payload is always re-decoded.
package decodecache

import (
	"errors"

	"github.com/cespare/xxhash/v2"
	rc "github.com/dgraph-io/ristretto"

	"github.com/lolokcat/cypherconf/codec"
	"github.com/lolokcat/cypherconf/dynjson"
)

// Cache wraps an inner codec and caches Decode by xxhash of the payload.
// Encode is forwarded unchanged. Cached values are cloned on the way in and
// out, so callers may mutate what Decode returns without poisoning the
// cache.
type Cache struct {
	inner codec.Codec
	c     *rc.Cache
}

var _ codec.Codec = (*Cache)(nil)

type Config struct {
	NumCounters int64 // 0 => 1e4
	MaxCost     int64 // total cached payload bytes; 0 => 1<<20
	BufferItems int64 // 0 => 64
	Metrics     bool
}

func New(inner codec.Codec, cfg Config) (*Cache, error) {
	if inner == nil {
		return nil, errors.New("decodecache: inner codec is required")
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 1e4
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 1 << 20
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, c: c}, nil
}

func (dc *Cache) Encode(v dynjson.Value) ([]byte, error) {
	return dc.inner.Encode(v)
}

func (dc *Cache) Decode(b []byte) (dynjson.Value, error) {
	key := xxhash.Sum64(b)
	if hit, ok := dc.c.Get(key); ok {
		if v, ok := hit.(dynjson.Value); ok {
			return dynjson.Clone(v), nil
		}
		// unexpected entry shape; drop it
		dc.c.Del(key)
	}
	v, err := dc.inner.Decode(b)
	if err != nil {
		return dynjson.Value{}, err
	}
	// cost by payload size, which tracks decoded size well enough
	dc.c.Set(key, dynjson.Clone(v), int64(len(b)))
	return v, nil
}

// Wait flushes pending admissions so subsequent Decodes observe them.
// Ristretto admits asynchronously; mainly useful in tests.
func (dc *Cache) Wait() { dc.c.Wait() }

// Close releases the underlying cache.
func (dc *Cache) Close() {
	dc.c.Wait()
	dc.c.Close()
}

// Metrics exposes ristretto metrics when Config.Metrics was set.
func (dc *Cache) Metrics() *rc.Metrics { return dc.c.Metrics }
