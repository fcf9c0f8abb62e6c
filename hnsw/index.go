// Package hnsw provides a vector Index built on coder/hnsw.
package hnsw

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/coder/hnsw"
	"github.com/fwojciec/tenk"
)

// Ensure types implement tenk interfaces at compile time.
var (
	_ tenk.Index        = (*Index)(nil)
	_ tenk.IndexBuilder = (*Builder)(nil)
)

// Graph parameters. coder/hnsw recommends M=16; EfSearch is raised to the
// graph size for small graphs so that search is exhaustive.
const (
	defaultM        = 16
	defaultEfSearch = 20
	defaultMl       = 0.25
)

// Builder embeds filing records and indexes them in an HNSW graph.
type Builder struct {
	Embedder tenk.Embedder

	// QueryEmbedder, if set, embeds search queries instead of Embedder,
	// typically a cache around the same model.
	QueryEmbedder tenk.Embedder

	// BatchSize bounds the number of texts per embedding request.
	BatchSize int
}

// NewBuilder returns a Builder using embedder.
func NewBuilder(embedder tenk.Embedder) *Builder {
	return &Builder{Embedder: embedder, BatchSize: 64}
}

// Engine returns tenk.EngineVector.
func (b *Builder) Engine() string { return tenk.EngineVector }

// RequiresCredential returns true; embedding calls an external service.
func (b *Builder) RequiresCredential() bool { return true }

// BuildIndex embeds records and builds the graph.
func (b *Builder) BuildIndex(ctx context.Context, cred tenk.Credential, year tenk.Year, records []*tenk.FilingRecord) (tenk.Index, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	if err := year.Validate(); err != nil {
		return nil, err
	}

	batch := b.BatchSize
	if batch <= 0 {
		batch = 64
	}

	vectors := make([][]float32, 0, len(records))
	for start := 0; start < len(records); start += batch {
		end := min(start+batch, len(records))
		texts := make([]string, 0, end-start)
		for _, r := range records[start:end] {
			texts = append(texts, r.Text)
		}
		vecs, err := b.Embedder.Embed(ctx, cred, texts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(texts) {
			return nil, tenk.Errorf(tenk.EINTERNAL, "embedder returned %d vectors for %d texts", len(vecs), len(texts))
		}
		vectors = append(vectors, vecs...)
	}

	return newIndex(&tenk.IndexSnapshot{
		Year:        year,
		Engine:      tenk.EngineVector,
		Model:       b.Embedder.Model(),
		ContentHash: tenk.ContentHash(records),
		Records:     records,
		Vectors:     vectors,
	}, b.queryEmbedder())
}

// RestoreIndex rebuilds the graph from persisted vectors. It returns
// ECONFLICT when the vectors came from a different embedding model.
func (b *Builder) RestoreIndex(_ context.Context, snap *tenk.IndexSnapshot) (tenk.Index, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if snap.Engine != tenk.EngineVector {
		return nil, tenk.Errorf(tenk.ECONFLICT, "snapshot engine %q is not %q", snap.Engine, tenk.EngineVector)
	}
	if snap.Model != b.Embedder.Model() {
		return nil, tenk.Errorf(tenk.ECONFLICT, "snapshot embedded with %q, want %q", snap.Model, b.Embedder.Model())
	}
	if len(snap.Vectors) != len(snap.Records) {
		return nil, tenk.Errorf(tenk.EINVALID, "snapshot has %d vectors for %d records", len(snap.Vectors), len(snap.Records))
	}
	return newIndex(snap, b.queryEmbedder())
}

func (b *Builder) queryEmbedder() tenk.Embedder {
	if b.QueryEmbedder != nil {
		return b.QueryEmbedder
	}
	return b.Embedder
}

// Index is an immutable HNSW index over one year's records.
type Index struct {
	mu       sync.RWMutex
	graph    *hnsw.Graph[uint64]
	snap     *tenk.IndexSnapshot
	dims     int
	embedder tenk.Embedder
}

func newIndex(snap *tenk.IndexSnapshot, embedder tenk.Embedder) (*Index, error) {
	g := hnsw.NewGraph[uint64]()
	g.Distance = hnsw.CosineDistance
	g.M = defaultM
	g.Ml = defaultMl
	g.EfSearch = max(defaultEfSearch, len(snap.Records))

	dims := 0
	for i, v := range snap.Vectors {
		if i == 0 {
			dims = len(v)
		} else if len(v) != dims {
			return nil, tenk.Errorf(tenk.EINVALID, "vector %d has %d dimensions, want %d", i, len(v), dims)
		}
		g.Add(hnsw.MakeNode(uint64(i), Normalize(v)))
	}

	return &Index{graph: g, snap: snap, dims: dims, embedder: embedder}, nil
}

// Year returns the fiscal year the index covers.
func (idx *Index) Year() tenk.Year { return idx.snap.Year }

// Len returns the number of indexed records.
func (idx *Index) Len() int { return len(idx.snap.Records) }

// Snapshot returns the serializable form of the index.
func (idx *Index) Snapshot() *tenk.IndexSnapshot { return idx.snap }

// Search embeds query and returns the k nearest records. Scores are cosine
// similarities.
func (idx *Index) Search(ctx context.Context, cred tenk.Credential, query string, k int) ([]*tenk.TextResult, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	if k <= 0 || idx.Len() == 0 {
		return []*tenk.TextResult{}, nil
	}

	vecs, err := idx.embedder.Embed(ctx, cred, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, tenk.Errorf(tenk.EINTERNAL, "embedder returned %d vectors for 1 query", len(vecs))
	}
	return idx.SearchVector(vecs[0], k)
}

// SearchVector returns the k records nearest to vec.
func (idx *Index) SearchVector(vec []float32, k int) ([]*tenk.TextResult, error) {
	if len(vec) != idx.dims {
		return nil, tenk.Errorf(tenk.EINVALID, "query has %d dimensions, index has %d", len(vec), idx.dims)
	}
	q := Normalize(vec)

	idx.mu.RLock()
	nodes := idx.graph.Search(q, k)
	idx.mu.RUnlock()

	results := make([]*tenk.TextResult, 0, len(nodes))
	for _, n := range nodes {
		results = append(results, &tenk.TextResult{
			Record: idx.snap.Records[n.Key],
			Score:  1 - hnsw.CosineDistance(q, n.Value),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}
	norm := float32(math.Sqrt(sum))
	for i := range out {
		out[i] /= norm
	}
	return out
}

// Similarity returns the cosine similarity of a and b.
func Similarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return 1 - hnsw.CosineDistance(Normalize(a), Normalize(b))
}
