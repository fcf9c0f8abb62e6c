package tenk

import (
	"context"
	"sort"
	"time"
)

// Index engines.
const (
	EngineVector  = "vector"
	EngineLexical = "lexical"
)

// TextResult is a retrieved record with its relevance score.
type TextResult struct {
	Record *FilingRecord `json:"record"`
	Score  float32       `json:"score"`
}

// Index is a retrievable structure built from one year's records.
// An Index is immutable once built and safe for concurrent searches.
type Index interface {
	// Year returns the fiscal year the index covers.
	Year() Year

	// Len returns the number of indexed records.
	Len() int

	// Search returns at most k records most relevant to query, most relevant first.
	Search(ctx context.Context, cred Credential, query string, k int) ([]*TextResult, error)

	// Snapshot returns the serializable form of the index.
	Snapshot() *IndexSnapshot
}

// IndexSnapshot is the persisted form of a per-year Index.
type IndexSnapshot struct {
	Directory   string          `json:"directory"`
	Year        Year            `json:"year"`
	Engine      string          `json:"engine"`
	Model       string          `json:"model,omitempty"`
	ContentHash string          `json:"contentHash"`
	Records     []*FilingRecord `json:"records"`
	Vectors     [][]float32     `json:"vectors,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *IndexSnapshot) Validate() error {
	if err := s.Year.Validate(); err != nil {
		return err
	}
	if s.Engine == "" {
		return Errorf(EINVALID, "index snapshot engine required")
	}
	if len(s.Vectors) > 0 && len(s.Vectors) != len(s.Records) {
		return Errorf(EINVALID, "index snapshot has %d vectors for %d records", len(s.Vectors), len(s.Records))
	}
	return nil
}

// IndexBuilder builds per-year indexes for one engine.
type IndexBuilder interface {
	// Engine names the engine, stored in snapshots.
	Engine() string

	// RequiresCredential reports whether building or searching calls an
	// external service that needs the API key.
	RequiresCredential() bool

	// BuildIndex builds an index from a year's records.
	BuildIndex(ctx context.Context, cred Credential, year Year, records []*FilingRecord) (Index, error)

	// RestoreIndex rebuilds an index from a snapshot without external calls.
	RestoreIndex(ctx context.Context, snap *IndexSnapshot) (Index, error)
}

// IndexStore persists per-year index snapshots.
type IndexStore interface {
	// SaveIndex persists a snapshot, replacing any previous one for the
	// same directory and year.
	SaveIndex(ctx context.Context, snap *IndexSnapshot) error

	// LoadIndex returns the snapshot for a directory and year.
	// Returns ENOTFOUND if none was persisted.
	LoadIndex(ctx context.Context, dir string, year Year) (*IndexSnapshot, error)
}

// IndexSet maps every configured fiscal year to its Index.
type IndexSet struct {
	Directory string

	// RequiresCredential is true when searching the indexes calls an
	// external service.
	RequiresCredential bool

	indexes map[Year]Index
}

// NewIndexSet returns an IndexSet over indexes. It returns EINVALID unless
// indexes covers exactly the configured fiscal years.
func NewIndexSet(dir string, indexes map[Year]Index, requiresCredential bool) (*IndexSet, error) {
	for _, y := range fiscalYears {
		if indexes[y] == nil {
			return nil, Errorf(EINVALID, "index set missing fiscal year %d", int(y))
		}
	}
	for y := range indexes {
		if err := y.Validate(); err != nil {
			return nil, Errorf(EINVALID, "index set has unexpected fiscal year %d", int(y))
		}
	}
	m := make(map[Year]Index, len(indexes))
	for y, idx := range indexes {
		m[y] = idx
	}
	return &IndexSet{Directory: dir, RequiresCredential: requiresCredential, indexes: m}, nil
}

// Index returns the index for year. Returns EINVALID for a year outside the set.
func (s *IndexSet) Index(year Year) (Index, error) {
	idx, ok := s.indexes[year]
	if !ok {
		return nil, Errorf(EINVALID, "fiscal year %d is not in the index set", int(year))
	}
	return idx, nil
}

// Years returns the covered years in ascending order.
func (s *IndexSet) Years() []Year {
	years := make([]Year, 0, len(s.indexes))
	for y := range s.indexes {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years
}

// ContentHashes returns the content hash of each year's index.
func (s *IndexSet) ContentHashes() map[Year]string {
	hashes := make(map[Year]string, len(s.indexes))
	for y, idx := range s.indexes {
		hashes[y] = idx.Snapshot().ContentHash
	}
	return hashes
}

// IndexSetBuilder builds the Index Set for a data directory.
type IndexSetBuilder interface {
	BuildIndexSet(ctx context.Context, cred Credential, dir string) (*IndexSet, error)
}

// IndexSetProvider returns the Index Set for a data directory, building it
// only when necessary.
type IndexSetProvider interface {
	IndexSet(ctx context.Context, cred Credential, dir string) (*IndexSet, error)
}

// CacheStats reports index cache activity.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Builds  uint64
	Entries int
}
