// Package composable answers questions across fiscal years with a two-phase
// pipeline over a graph of per-year indexes: routing selects the year
// partitions and their fragments, synthesis turns them into one answer.
package composable

import (
	"context"
	"sort"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/hnsw"
	"golang.org/x/sync/errgroup"
)

// Ensure Router implements tenk.Router at compile time.
var _ tenk.Router = (*Router)(nil)

// Router selects year partitions from a graph. A list root selects every
// year. A dict root selects the years whose summaries are most similar to
// the query, or, without summary vectors, the years whose best fragment
// scores highest.
type Router struct {
	// Embedder embeds the query for dict roots with summary vectors.
	Embedder tenk.Embedder

	DefaultTopK int

	// RootTopK is the number of years a dict root keeps. Zero uses the
	// top k of the dict query config, or 1.
	RootTopK int
}

// NewRouter returns a Router.
func NewRouter(embedder tenk.Embedder) *Router {
	return &Router{Embedder: embedder, DefaultTopK: tenk.DefaultTopK}
}

// Route returns the selected partitions with the fragments retrieved for
// each using the leaf configuration. Partitions without fragments are
// dropped.
func (r *Router) Route(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, configs tenk.QueryConfigs) ([]*tenk.Partition, error) {
	if g.Indexes == nil {
		return nil, tenk.Errorf(tenk.EINVALID, "graph has no indexes attached")
	}

	leaf := configs.For(tenk.IndexStructDict)
	k := leaf.TopK(r.defaultTopK())

	partitions, err := r.retrieve(ctx, cred, g, query, k)
	if err != nil {
		return nil, err
	}

	if g.RootType == tenk.IndexStructDict {
		root := configs.For(g.RootType)
		if err := r.score(ctx, cred, g, query, partitions); err != nil {
			return nil, err
		}
		sort.SliceStable(partitions, func(i, j int) bool { return partitions[i].Score > partitions[j].Score })
		n := root.TopK(1)
		if r.RootTopK > 0 {
			n = r.RootTopK
		}
		if len(partitions) > n {
			partitions = partitions[:n]
		}
	}

	out := partitions[:0]
	for _, p := range partitions {
		if len(p.Results) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// retrieve searches every year of the graph concurrently, in year order.
func (r *Router) retrieve(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, k int) ([]*tenk.Partition, error) {
	partitions := make([]*tenk.Partition, len(g.Years))

	grp, gctx := errgroup.WithContext(ctx)
	for i, year := range g.Years {
		grp.Go(func() error {
			idx, err := g.Indexes.Index(year)
			if err != nil {
				return err
			}
			results, err := idx.Search(gctx, cred, query, k)
			if err != nil {
				return err
			}
			p := &tenk.Partition{Year: year, Summary: g.Summaries[year], Results: results}
			if len(results) > 0 {
				p.Score = results[0].Score
			}
			partitions[i] = p
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return partitions, nil
}

// score replaces fragment scores with summary similarity when the graph
// carries summary vectors.
func (r *Router) score(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, partitions []*tenk.Partition) error {
	if r.Embedder == nil || len(g.SummaryVectors) == 0 {
		return nil
	}

	vecs, err := r.Embedder.Embed(ctx, cred, []string{query})
	if err != nil {
		return err
	}
	if len(vecs) != 1 {
		return tenk.Errorf(tenk.EINTERNAL, "embedder returned %d vectors for 1 query", len(vecs))
	}

	for _, p := range partitions {
		if v, ok := g.SummaryVectors[p.Year]; ok {
			p.Score = hnsw.Similarity(vecs[0], v)
		}
	}
	return nil
}

func (r *Router) defaultTopK() int {
	if r.DefaultTopK > 0 {
		return r.DefaultTopK
	}
	return tenk.DefaultTopK
}
