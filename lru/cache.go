// Package lru caches Index Sets and query embeddings in memory with
// hashicorp/golang-lru.
package lru

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/tenk"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of data directories whose Index Sets are
// kept in memory.
const DefaultCacheSize = 8

// Ensure IndexCache implements tenk.IndexSetProvider at compile time.
var _ tenk.IndexSetProvider = (*IndexCache)(nil)

// IndexCache memoizes Index Sets by data directory. Directories are keyed by
// their clean absolute path. Concurrent requests for the same directory
// share one build; failed builds are not cached.
type IndexCache struct {
	builder tenk.IndexSetBuilder
	cache   *lru.Cache[string, *tenk.IndexSet]
	group   singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64

	hits   atomic.Uint64
	misses atomic.Uint64
	builds atomic.Uint64

	// OnBuild, if set, is called with the directory after each successful
	// build, for example to start watching it for changes.
	OnBuild func(dir string)
}

// NewIndexCache returns a cache holding up to size Index Sets.
func NewIndexCache(builder tenk.IndexSetBuilder, size int) *IndexCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, *tenk.IndexSet](size)
	return &IndexCache{
		builder:     builder,
		cache:       cache,
		generations: make(map[string]uint64),
	}
}

// IndexSet returns the cached Index Set for dir, building it on first use.
func (c *IndexCache) IndexSet(ctx context.Context, cred tenk.Credential, dir string) (*tenk.IndexSet, error) {
	key := tenk.CleanDir(dir)

	if set, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return set, nil
	}
	c.misses.Add(1)

	// Callers with and without a key never share a build: a keyless build
	// fails on engines that need the key.
	flight := key
	if cred.Available() {
		flight += "\x00key"
	}

	// The build outlives a canceled caller so the others waiting on it
	// still get the result.
	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		if set, ok := c.cache.Get(key); ok {
			return set, nil
		}

		gen := c.generation(key)
		set, err := c.builder.BuildIndexSet(buildCtx, cred, key)
		if err != nil {
			return nil, err
		}
		c.builds.Add(1)

		// A concurrent Invalidate means the filings changed mid-build.
		if c.generation(key) == gen {
			c.cache.Add(key, set)
		}
		if c.OnBuild != nil {
			c.OnBuild(key)
		}
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*tenk.IndexSet), nil
	}
}

// Invalidate drops the cached Index Set for dir. The next request rebuilds.
func (c *IndexCache) Invalidate(dir string) {
	key := tenk.CleanDir(dir)
	c.mu.Lock()
	c.generations[key]++
	c.mu.Unlock()
	c.cache.Remove(key)
}

// Stats reports cache activity.
func (c *IndexCache) Stats() tenk.CacheStats {
	return tenk.CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Builds:  c.builds.Load(),
		Entries: c.cache.Len(),
	}
}

func (c *IndexCache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}
