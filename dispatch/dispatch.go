// Package dispatch runs queries against the Index Set of a data directory:
// per-year retrieval, independent retrieval over every year, and synthesized
// answers through a graph service.
package dispatch

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/tenk"
	"golang.org/x/sync/errgroup"
)

// QueryYear returns at most k fragments from year's index, most relevant
// first. A non-positive k selects tenk.DefaultTopK.
//
// Returns EUNAUTHORIZED if searching set calls an external service and cred
// carries no API key, EINVALID for a blank query or a year outside set.
func QueryYear(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet, year tenk.Year, query string, k int) ([]*tenk.TextResult, error) {
	if set.RequiresCredential {
		if err := cred.Require(); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(query) == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "query required")
	}
	if k <= 0 {
		k = tenk.DefaultTopK
	}

	idx, err := set.Index(year)
	if err != nil {
		return nil, err
	}
	results, err := idx.Search(ctx, cred, query, k)
	if err != nil {
		return nil, err
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// QueryAllYears runs QueryYear for every year of set concurrently. The
// result has one entry per year, empty when nothing matched.
func QueryAllYears(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet, query string, k int) (map[tenk.Year][]*tenk.TextResult, error) {
	years := set.Years()
	out := make(map[tenk.Year][]*tenk.TextResult, len(years))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, year := range years {
		g.Go(func() error {
			results, err := QueryYear(gctx, cred, set, year, query, k)
			if err != nil {
				return err
			}
			if results == nil {
				results = []*tenk.TextResult{}
			}
			mu.Lock()
			out[year] = results
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure Dispatcher implements tenk.QueryService at compile time.
var _ tenk.QueryService = (*Dispatcher)(nil)

// Dispatcher resolves a data directory to its Index Set and runs queries
// against it.
type Dispatcher struct {
	Indexes tenk.IndexSetProvider
	Graphs  tenk.GraphService

	// GraphConfigs are passed to QueryGraph. Empty selects the defaults.
	GraphConfigs tenk.QueryConfigs

	TopK int
}

// NewDispatcher returns a Dispatcher.
func NewDispatcher(indexes tenk.IndexSetProvider, graphs tenk.GraphService) *Dispatcher {
	return &Dispatcher{Indexes: indexes, Graphs: graphs, TopK: tenk.DefaultTopK}
}

// QueryYear returns at most k fragments of year from the filings in dir.
func (d *Dispatcher) QueryYear(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) ([]*tenk.TextResult, error) {
	if err := year.Validate(); err != nil {
		return nil, err
	}
	set, err := d.Indexes.IndexSet(ctx, cred, dir)
	if err != nil {
		return nil, err
	}
	return QueryYear(ctx, cred, set, year, query, d.topK(k))
}

// QueryAllYears returns at most k fragments of every year from the filings in dir.
func (d *Dispatcher) QueryAllYears(ctx context.Context, cred tenk.Credential, dir string, query string, k int) (map[tenk.Year][]*tenk.TextResult, error) {
	set, err := d.Indexes.IndexSet(ctx, cred, dir)
	if err != nil {
		return nil, err
	}
	return QueryAllYears(ctx, cred, set, query, d.topK(k))
}

// QueryGraph returns one answer synthesized across the years of dir.
func (d *Dispatcher) QueryGraph(ctx context.Context, cred tenk.Credential, dir string, query string) (*tenk.SynthesizedAnswer, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	set, err := d.Indexes.IndexSet(ctx, cred, dir)
	if err != nil {
		return nil, err
	}
	g, err := d.Graphs.Graph(ctx, cred, set)
	if err != nil {
		return nil, err
	}
	return d.Graphs.QueryGraph(ctx, cred, g, query, d.GraphConfigs)
}

// AnswerYear returns an answer synthesized from the top k fragments of year.
func (d *Dispatcher) AnswerYear(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) (*tenk.SynthesizedAnswer, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	if err := year.Validate(); err != nil {
		return nil, err
	}
	set, err := d.Indexes.IndexSet(ctx, cred, dir)
	if err != nil {
		return nil, err
	}
	return d.Graphs.AnswerYear(ctx, cred, set, year, query, d.topK(k))
}

func (d *Dispatcher) topK(k int) int {
	if k > 0 {
		return k
	}
	if d.TopK > 0 {
		return d.TopK
	}
	return tenk.DefaultTopK
}
