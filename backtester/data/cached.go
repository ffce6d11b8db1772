package data

import (
	"context"
	"strings"
	"time"

	"github.com/quantbt/qbt/common/cache"
)

// DefaultCacheCapacity is the number of responses a Cached source keeps
const DefaultCacheCapacity = 16

type cacheKey struct {
	symbols  string
	start    int64
	end      int64
	interval string
}

// Cached wraps a Source, remembering its responses so runs requesting the
// same data only fetch it once. Errors are not cached
type Cached struct {
	Source
	lru *cache.LRU
}

// NewCached returns a Cached source holding up to capacity responses
func NewCached(src Source, capacity uint64) *Cached {
	if capacity == 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cached{Source: src, lru: cache.NewLRUCache(capacity)}
}

// GetPrice returns a copy of the cached table for the request, fetching it
// from the wrapped source on a miss
func (c *Cached) GetPrice(ctx context.Context, symbols []string, start, end time.Time, interval string) (*Table, error) {
	key := cacheKey{
		symbols:  strings.Join(symbols, ","),
		start:    start.UnixNano(),
		end:      end.UnixNano(),
		interval: interval,
	}
	if v, ok := c.lru.Get(key); ok {
		return v.(*Table).Clone(), nil
	}
	t, err := c.Source.GetPrice(ctx, symbols, start, end, interval)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errNilTable
	}
	c.lru.Add(key, t.Clone())
	return t, nil
}

// Close closes the wrapped source when it can be closed
func (c *Cached) Close() error {
	if cl, ok := c.Source.(interface{ Close() error }); ok {
		return cl.Close()
	}
	return nil
}
