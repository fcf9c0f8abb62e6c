package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var (
	_ tenk.GraphStore  = (*GraphStore)(nil)
	_ tenk.Router      = (*Router)(nil)
	_ tenk.Synthesizer = (*Synthesizer)(nil)
)

// GraphStore is a mock implementation of tenk.GraphStore.
type GraphStore struct {
	SaveGraphFn func(ctx context.Context, g *tenk.Graph) error
	LoadGraphFn func(ctx context.Context, dir string) (*tenk.Graph, error)
}

func (s *GraphStore) SaveGraph(ctx context.Context, g *tenk.Graph) error {
	return s.SaveGraphFn(ctx, g)
}

func (s *GraphStore) LoadGraph(ctx context.Context, dir string) (*tenk.Graph, error) {
	return s.LoadGraphFn(ctx, dir)
}

// Router is a mock implementation of tenk.Router.
type Router struct {
	RouteFn func(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, configs tenk.QueryConfigs) ([]*tenk.Partition, error)
}

func (r *Router) Route(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, configs tenk.QueryConfigs) ([]*tenk.Partition, error) {
	return r.RouteFn(ctx, cred, g, query, configs)
}

// Synthesizer is a mock implementation of tenk.Synthesizer.
type Synthesizer struct {
	SynthesizeFn func(ctx context.Context, cred tenk.Credential, query string, partitions []*tenk.Partition, configs tenk.QueryConfigs) (*tenk.SynthesizedAnswer, error)
}

func (s *Synthesizer) Synthesize(ctx context.Context, cred tenk.Credential, query string, partitions []*tenk.Partition, configs tenk.QueryConfigs) (*tenk.SynthesizedAnswer, error) {
	return s.SynthesizeFn(ctx, cred, query, partitions, configs)
}

var _ tenk.GraphService = (*GraphService)(nil)

// GraphService is a mock implementation of tenk.GraphService.
type GraphService struct {
	GraphFn      func(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet) (*tenk.Graph, error)
	QueryGraphFn func(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, configs tenk.QueryConfigs) (*tenk.SynthesizedAnswer, error)
	AnswerYearFn func(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet, year tenk.Year, query string, k int) (*tenk.SynthesizedAnswer, error)
}

func (s *GraphService) Graph(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet) (*tenk.Graph, error) {
	return s.GraphFn(ctx, cred, set)
}

func (s *GraphService) QueryGraph(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, configs tenk.QueryConfigs) (*tenk.SynthesizedAnswer, error) {
	return s.QueryGraphFn(ctx, cred, g, query, configs)
}

func (s *GraphService) AnswerYear(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet, year tenk.Year, query string, k int) (*tenk.SynthesizedAnswer, error) {
	return s.AnswerYearFn(ctx, cred, set, year, query, k)
}
