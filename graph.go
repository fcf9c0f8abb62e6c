package tenk

import (
	"context"
	"time"
)

// Graph is a composable aggregation over an Index Set. Each year is a child
// partition described by a short natural-language summary; the root is
// list-structured.
type Graph struct {
	Directory      string             `json:"directory"`
	RootType       IndexStructType    `json:"rootType"`
	Years          []Year             `json:"years"`
	Summaries      map[Year]string    `json:"summaries"`
	SummaryVectors map[Year][]float32 `json:"summaryVectors,omitempty"`
	IndexHashes    map[Year]string    `json:"indexHashes"`
	CreatedAt      time.Time          `json:"createdAt"`

	// Indexes is attached after building or reloading and never persisted.
	Indexes *IndexSet `json:"-"`
}

// Validate returns an error if the graph contains invalid fields.
func (g *Graph) Validate() error {
	if len(g.Years) == 0 {
		return Errorf(EINVALID, "graph has no years")
	}
	for _, y := range g.Years {
		if err := y.Validate(); err != nil {
			return err
		}
		if g.Summaries[y] == "" {
			return Errorf(EINVALID, "graph summary for fiscal year %d required", int(y))
		}
	}
	switch g.RootType {
	case IndexStructDict, IndexStructList:
	default:
		return Errorf(EINVALID, "unknown graph root type %q", g.RootType)
	}
	return nil
}

// Matches reports whether the graph was built over the given index set contents.
func (g *Graph) Matches(set *IndexSet) bool {
	hashes := set.ContentHashes()
	if len(hashes) != len(g.IndexHashes) {
		return false
	}
	for y, h := range hashes {
		if g.IndexHashes[y] != h {
			return false
		}
	}
	return true
}

// GraphStore persists composable graphs.
type GraphStore interface {
	// SaveGraph persists a graph, replacing any previous one for its directory.
	SaveGraph(ctx context.Context, g *Graph) error

	// LoadGraph returns the graph persisted for dir.
	// Returns ENOTFOUND if none was persisted.
	LoadGraph(ctx context.Context, dir string) (*Graph, error)
}

// Partition is one year selected by the routing phase with its fragments.
type Partition struct {
	Year    Year
	Summary string
	Score   float32
	Results []*TextResult
}

// Router is the first phase of a composable query: it selects the year
// partitions relevant to a query and retrieves their fragments.
type Router interface {
	Route(ctx context.Context, cred Credential, g *Graph, query string, configs QueryConfigs) ([]*Partition, error)
}

// Synthesizer is the second phase of a composable query: it turns routed
// partitions into one answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, cred Credential, query string, partitions []*Partition, configs QueryConfigs) (*SynthesizedAnswer, error)
}

// SynthesizedAnswer is the answer to a composable query with its sources.
type SynthesizedAnswer struct {
	Text    string        `json:"text"`
	Sources []*TextResult `json:"sources"`
}

// GraphService builds and queries composable graphs over Index Sets.
type GraphService interface {
	// Graph returns the graph over set, reusing a persisted one when it
	// was built from the same index contents.
	Graph(ctx context.Context, cred Credential, set *IndexSet) (*Graph, error)

	// QueryGraph answers query across the years of g.
	QueryGraph(ctx context.Context, cred Credential, g *Graph, query string, configs QueryConfigs) (*SynthesizedAnswer, error)

	// AnswerYear answers query from the top k fragments of one year.
	AnswerYear(ctx context.Context, cred Credential, set *IndexSet, year Year, query string, k int) (*SynthesizedAnswer, error)
}
