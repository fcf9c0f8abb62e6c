// Package bleve provides a lexical BM25 Index built on in-memory Bleve.
// Lexical indexes need no API key to build or search.
package bleve

import (
	"context"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/fwojciec/tenk"
)

// Ensure types implement tenk interfaces at compile time.
var (
	_ tenk.Index        = (*Index)(nil)
	_ tenk.IndexBuilder = (*Builder)(nil)
)

const contentField = "content"

// document is the indexed form of a filing record.
type document struct {
	Content string `json:"content"`
	Section string `json:"section"`
}

// Builder builds lexical indexes.
type Builder struct{}

// NewBuilder returns a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Engine returns tenk.EngineLexical.
func (b *Builder) Engine() string { return tenk.EngineLexical }

// RequiresCredential returns false.
func (b *Builder) RequiresCredential() bool { return false }

// BuildIndex indexes records with the English analyzer.
func (b *Builder) BuildIndex(ctx context.Context, _ tenk.Credential, year tenk.Year, records []*tenk.FilingRecord) (tenk.Index, error) {
	if err := year.Validate(); err != nil {
		return nil, err
	}
	return newIndex(&tenk.IndexSnapshot{
		Year:        year,
		Engine:      tenk.EngineLexical,
		ContentHash: tenk.ContentHash(records),
		Records:     records,
	})
}

// RestoreIndex re-indexes the records of a snapshot.
func (b *Builder) RestoreIndex(_ context.Context, snap *tenk.IndexSnapshot) (tenk.Index, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if snap.Engine != tenk.EngineLexical {
		return nil, tenk.Errorf(tenk.ECONFLICT, "snapshot engine %q is not %q", snap.Engine, tenk.EngineLexical)
	}
	return newIndex(snap)
}

// Index is an in-memory Bleve index over one year's records.
type Index struct {
	index bleve.Index
	snap  *tenk.IndexSnapshot
}

func newIndex(snap *tenk.IndexSnapshot) (*Index, error) {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = en.AnalyzerName

	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINTERNAL, "create lexical index: %v", err)
	}

	batch := idx.NewBatch()
	for i, r := range snap.Records {
		if err := batch.Index(strconv.Itoa(i), document{Content: r.Text, Section: r.Section}); err != nil {
			return nil, tenk.Errorf(tenk.EINTERNAL, "index record %s: %v", r.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, tenk.Errorf(tenk.EINTERNAL, "index records: %v", err)
	}

	return &Index{index: idx, snap: snap}, nil
}

// Year returns the fiscal year the index covers.
func (idx *Index) Year() tenk.Year { return idx.snap.Year }

// Len returns the number of indexed records.
func (idx *Index) Len() int { return len(idx.snap.Records) }

// Snapshot returns the serializable form of the index.
func (idx *Index) Snapshot() *tenk.IndexSnapshot { return idx.snap }

// Search returns at most k records matching query, ranked by BM25.
func (idx *Index) Search(ctx context.Context, _ tenk.Credential, query string, k int) ([]*tenk.TextResult, error) {
	if k <= 0 || strings.TrimSpace(query) == "" {
		return []*tenk.TextResult{}, nil
	}

	q := bleve.NewMatchQuery(query)
	q.SetField(contentField)

	req := bleve.NewSearchRequest(q)
	req.Size = k

	res, err := idx.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINTERNAL, "lexical search: %v", err)
	}

	results := make([]*tenk.TextResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(idx.snap.Records) {
			continue
		}
		results = append(results, &tenk.TextResult{
			Record: idx.snap.Records[i],
			Score:  float32(hit.Score),
		})
	}
	return results, nil
}
