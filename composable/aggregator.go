package composable

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure Aggregator implements tenk.GraphService at compile time.
var _ tenk.GraphService = (*Aggregator)(nil)

// Aggregator builds, persists and queries composable graphs over Index Sets.
// Graphs are cached in memory per data directory and rebuilt only when the
// persisted graph is absent or refers to different index contents.
type Aggregator struct {
	Router      tenk.Router
	Synthesizer tenk.Synthesizer

	// RootType selects the graph root. A list root sends every year to
	// synthesis; a dict root routes to the most relevant years. Defaults to
	// tenk.IndexStructList.
	RootType tenk.IndexStructType

	// Embedder, if set, embeds year summaries of dict-rooted graphs.
	Embedder tenk.Embedder

	// Graphs is optional. Without it graphs live only in memory.
	Graphs tenk.GraphStore

	Ticker string
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	graphs map[string]*tenk.Graph
}

// NewAggregator returns an Aggregator with the given phases.
func NewAggregator(router tenk.Router, synthesizer tenk.Synthesizer) *Aggregator {
	return &Aggregator{Router: router, Synthesizer: synthesizer, RootType: tenk.IndexStructList, Ticker: tenk.DefaultTicker}
}

// BuildGraph builds a graph with the configured root over set with one
// summary per year. Years missing from summaries get the default descriptor.
func (a *Aggregator) BuildGraph(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet, summaries map[tenk.Year]string) (*tenk.Graph, error) {
	years := set.Years()
	g := &tenk.Graph{
		Directory:   set.Directory,
		RootType:    a.rootType(),
		Years:       years,
		Summaries:   make(map[tenk.Year]string, len(years)),
		IndexHashes: set.ContentHashes(),
		CreatedAt:   a.now(),
		Indexes:     set,
	}
	for _, y := range years {
		if s := strings.TrimSpace(summaries[y]); s != "" {
			g.Summaries[y] = s
		} else {
			g.Summaries[y] = tenk.SummaryText(a.Ticker, y)
		}
	}

	if g.RootType == tenk.IndexStructDict && a.Embedder != nil && cred.Available() {
		texts := make([]string, len(years))
		for i, y := range years {
			texts[i] = g.Summaries[y]
		}
		vecs, err := a.Embedder.Embed(ctx, cred, texts)
		if err != nil {
			a.logger().Warn("failed to embed graph summaries", "dir", set.Directory, "error", err)
		} else if len(vecs) == len(years) {
			g.SummaryVectors = make(map[tenk.Year][]float32, len(years))
			for i, y := range years {
				g.SummaryVectors[y] = vecs[i]
			}
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Graph returns the graph over set: from memory, from the store when it
// matches the set's contents, or freshly built and persisted.
func (a *Aggregator) Graph(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet) (*tenk.Graph, error) {
	a.mu.Lock()
	if g, ok := a.graphs[set.Directory]; ok && g.Indexes == set {
		a.mu.Unlock()
		return g, nil
	}
	a.mu.Unlock()

	g := a.load(ctx, set)
	if g == nil {
		var err error
		if g, err = a.BuildGraph(ctx, cred, set, nil); err != nil {
			return nil, err
		}
		if a.Graphs != nil {
			if err := a.Graphs.SaveGraph(ctx, g); err != nil {
				a.logger().Warn("failed to persist graph", "dir", set.Directory, "error", err)
			}
		}
	}

	a.mu.Lock()
	if a.graphs == nil {
		a.graphs = make(map[string]*tenk.Graph)
	}
	a.graphs[set.Directory] = g
	a.mu.Unlock()
	return g, nil
}

// load returns the persisted graph for set, or nil when it is absent or stale.
func (a *Aggregator) load(ctx context.Context, set *tenk.IndexSet) *tenk.Graph {
	if a.Graphs == nil {
		return nil
	}
	g, err := a.Graphs.LoadGraph(ctx, set.Directory)
	if tenk.ErrorCode(err) == tenk.ENOTFOUND {
		return nil
	} else if err != nil {
		a.logger().Warn("failed to load graph", "dir", set.Directory, "error", err)
		return nil
	}
	if err := g.Validate(); err != nil || !g.Matches(set) || g.RootType != a.rootType() {
		a.logger().Info("persisted graph is stale", "dir", set.Directory)
		return nil
	}
	g.Indexes = set
	return g
}

// QueryGraph answers query across the years of g. Empty configs select
// tenk.DefaultGraphQueryConfigs.
func (a *Aggregator) QueryGraph(ctx context.Context, cred tenk.Credential, g *tenk.Graph, query string, configs tenk.QueryConfigs) (*tenk.SynthesizedAnswer, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "query required")
	}
	if len(configs) == 0 {
		configs = tenk.DefaultGraphQueryConfigs()
	}
	if err := configs.Validate(); err != nil {
		return nil, err
	}

	partitions, err := a.Router.Route(ctx, cred, g, query, configs)
	if err != nil {
		return nil, err
	}
	return a.Synthesizer.Synthesize(ctx, cred, query, partitions, configs)
}

// AnswerYear answers query from the top k fragments of one year.
func (a *Aggregator) AnswerYear(ctx context.Context, cred tenk.Credential, set *tenk.IndexSet, year tenk.Year, query string, k int) (*tenk.SynthesizedAnswer, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "query required")
	}
	idx, err := set.Index(year)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = tenk.DefaultTopK
	}

	results, err := idx.Search(ctx, cred, query, k)
	if err != nil {
		return nil, err
	}

	configs := tenk.QueryConfigs{{IndexStructType: tenk.IndexStructDict, ResponseMode: tenk.ResponseModeDefault, SimilarityTopK: k}}
	partition := &tenk.Partition{Year: year, Summary: tenk.SummaryText(a.Ticker, year), Results: results}
	return a.Synthesizer.Synthesize(ctx, cred, query, []*tenk.Partition{partition}, configs)
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (a *Aggregator) rootType() tenk.IndexStructType {
	if a.RootType != "" {
		return a.RootType
	}
	return tenk.IndexStructList
}
