package lru

import (
	"context"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/tenk"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultEmbeddingCacheSize is the default number of embeddings to cache.
const DefaultEmbeddingCacheSize = 1000

// Ensure CachedEmbedder implements tenk.Embedder at compile time.
var _ tenk.Embedder = (*CachedEmbedder)(nil)

// CachedEmbedder wraps an Embedder with LRU caching. Preset questions are
// asked repeatedly against every year, so their vectors are reused.
type CachedEmbedder struct {
	inner tenk.Embedder
	cache *lru.Cache[string, []float32]
}

// NewCachedEmbedder creates a cached embedder wrapping inner.
func NewCachedEmbedder(inner tenk.Embedder, cacheSize int) *CachedEmbedder {
	if cacheSize <= 0 {
		cacheSize = DefaultEmbeddingCacheSize
	}
	cache, _ := lru.New[string, []float32](cacheSize)
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Model returns the wrapped model name.
func (c *CachedEmbedder) Model() string { return c.inner.Model() }

// Embed returns cached vectors where available and embeds the rest in one
// call. The credential is still required on a full cache hit.
func (c *CachedEmbedder) Embed(ctx context.Context, cred tenk.Credential, texts []string) ([][]float32, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		if vec, ok := c.cache.Get(c.key(text)); ok {
			results[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return results, nil
	}

	vecs, err := c.inner.Embed(ctx, cred, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, tenk.Errorf(tenk.EINTERNAL, "embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
	}
	for j, i := range missIdx {
		results[i] = vecs[j]
		c.cache.Add(c.key(texts[i]), vecs[j])
	}
	return results, nil
}

func (c *CachedEmbedder) key(text string) string {
	d := xxhash.New()
	_, _ = d.WriteString(c.inner.Model())
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(text)
	return hex.EncodeToString(d.Sum(nil))
}
