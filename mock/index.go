package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var (
	_ tenk.Index            = (*Index)(nil)
	_ tenk.IndexBuilder     = (*IndexBuilder)(nil)
	_ tenk.IndexStore       = (*IndexStore)(nil)
	_ tenk.IndexSetBuilder  = (*IndexSetBuilder)(nil)
	_ tenk.IndexSetProvider = (*IndexSetProvider)(nil)
)

// Index is a mock implementation of tenk.Index.
type Index struct {
	YearFn     func() tenk.Year
	LenFn      func() int
	SearchFn   func(ctx context.Context, cred tenk.Credential, query string, k int) ([]*tenk.TextResult, error)
	SnapshotFn func() *tenk.IndexSnapshot
}

func (i *Index) Year() tenk.Year {
	return i.YearFn()
}

func (i *Index) Len() int {
	return i.LenFn()
}

func (i *Index) Search(ctx context.Context, cred tenk.Credential, query string, k int) ([]*tenk.TextResult, error) {
	return i.SearchFn(ctx, cred, query, k)
}

func (i *Index) Snapshot() *tenk.IndexSnapshot {
	return i.SnapshotFn()
}

// IndexBuilder is a mock implementation of tenk.IndexBuilder.
type IndexBuilder struct {
	EngineFn             func() string
	RequiresCredentialFn func() bool
	BuildIndexFn         func(ctx context.Context, cred tenk.Credential, year tenk.Year, records []*tenk.FilingRecord) (tenk.Index, error)
	RestoreIndexFn       func(ctx context.Context, snap *tenk.IndexSnapshot) (tenk.Index, error)
}

func (b *IndexBuilder) Engine() string {
	return b.EngineFn()
}

func (b *IndexBuilder) RequiresCredential() bool {
	return b.RequiresCredentialFn()
}

func (b *IndexBuilder) BuildIndex(ctx context.Context, cred tenk.Credential, year tenk.Year, records []*tenk.FilingRecord) (tenk.Index, error) {
	return b.BuildIndexFn(ctx, cred, year, records)
}

func (b *IndexBuilder) RestoreIndex(ctx context.Context, snap *tenk.IndexSnapshot) (tenk.Index, error) {
	return b.RestoreIndexFn(ctx, snap)
}

// IndexStore is a mock implementation of tenk.IndexStore.
type IndexStore struct {
	SaveIndexFn func(ctx context.Context, snap *tenk.IndexSnapshot) error
	LoadIndexFn func(ctx context.Context, dir string, year tenk.Year) (*tenk.IndexSnapshot, error)
}

func (s *IndexStore) SaveIndex(ctx context.Context, snap *tenk.IndexSnapshot) error {
	return s.SaveIndexFn(ctx, snap)
}

func (s *IndexStore) LoadIndex(ctx context.Context, dir string, year tenk.Year) (*tenk.IndexSnapshot, error) {
	return s.LoadIndexFn(ctx, dir, year)
}

// IndexSetBuilder is a mock implementation of tenk.IndexSetBuilder.
type IndexSetBuilder struct {
	BuildIndexSetFn func(ctx context.Context, cred tenk.Credential, dir string) (*tenk.IndexSet, error)
}

func (b *IndexSetBuilder) BuildIndexSet(ctx context.Context, cred tenk.Credential, dir string) (*tenk.IndexSet, error) {
	return b.BuildIndexSetFn(ctx, cred, dir)
}

// IndexSetProvider is a mock implementation of tenk.IndexSetProvider.
type IndexSetProvider struct {
	IndexSetFn func(ctx context.Context, cred tenk.Credential, dir string) (*tenk.IndexSet, error)
}

func (p *IndexSetProvider) IndexSet(ctx context.Context, cred tenk.Credential, dir string) (*tenk.IndexSet, error) {
	return p.IndexSetFn(ctx, cred, dir)
}

// NewIndexSet returns an IndexSet over a static index per configured year.
// Each index returns results from its own entry in byYear, truncated to k.
func NewIndexSet(dir string, byYear map[tenk.Year][]*tenk.TextResult) *tenk.IndexSet {
	indexes := make(map[tenk.Year]tenk.Index)
	for _, y := range tenk.FiscalYears() {
		indexes[y] = NewStaticIndex(y, byYear[y])
	}
	set, err := tenk.NewIndexSet(dir, indexes, false)
	if err != nil {
		panic(err)
	}
	return set
}

// NewStaticIndex returns an Index that always returns results, truncated to k.
func NewStaticIndex(year tenk.Year, results []*tenk.TextResult) *Index {
	records := make([]*tenk.FilingRecord, len(results))
	for i, r := range results {
		records[i] = r.Record
	}
	snap := &tenk.IndexSnapshot{
		Year:        year,
		Engine:      "static",
		ContentHash: tenk.ContentHash(records),
		Records:     records,
	}
	return &Index{
		YearFn: func() tenk.Year { return year },
		LenFn:  func() int { return len(results) },
		SearchFn: func(_ context.Context, _ tenk.Credential, _ string, k int) ([]*tenk.TextResult, error) {
			if k < len(results) {
				return results[:k], nil
			}
			return results, nil
		},
		SnapshotFn: func() *tenk.IndexSnapshot { return snap },
	}
}
