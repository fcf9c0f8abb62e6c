package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure Store implements tenk interfaces at compile time.
var (
	_ tenk.IndexStore = (*Store)(nil)
	_ tenk.GraphStore = (*Store)(nil)
)

// Store implements tenk.IndexStore and tenk.GraphStore using SQLite.
// Snapshots are keyed by data directory and year, so one database can hold
// indexes for several directories.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SaveIndex inserts or replaces the snapshot for its directory and year.
func (s *Store) SaveIndex(ctx context.Context, snap *tenk.IndexSnapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	records, err := json.Marshal(snap.Records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	vectors, dims := encodeVectors(snap.Vectors)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO indexes (directory, year, engine, model, content_hash, records, vectors, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (directory, year) DO UPDATE SET
			engine = excluded.engine,
			model = excluded.model,
			content_hash = excluded.content_hash,
			records = excluded.records,
			vectors = excluded.vectors,
			dimensions = excluded.dimensions,
			created_at = excluded.created_at
	`,
		snap.Directory,
		int(snap.Year),
		snap.Engine,
		snap.Model,
		snap.ContentHash,
		string(records),
		vectors,
		dims,
		snap.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadIndex returns the snapshot for dir and year, or ENOTFOUND.
func (s *Store) LoadIndex(ctx context.Context, dir string, year tenk.Year) (*tenk.IndexSnapshot, error) {
	snap := &tenk.IndexSnapshot{Directory: tenk.CleanDir(dir), Year: year}
	var (
		records   string
		vectors   []byte
		dims      int
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT engine, model, content_hash, records, vectors, dimensions, created_at
		FROM indexes
		WHERE directory = ? AND year = ?
	`, snap.Directory, int(year)).Scan(
		&snap.Engine,
		&snap.Model,
		&snap.ContentHash,
		&records,
		&vectors,
		&dims,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no index persisted for %s year %d", dir, int(year))
	} else if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(records), &snap.Records); err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "decode records: %v", err)
	}
	if snap.Vectors, err = decodeVectors(vectors, dims); err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "decode vectors: %v", err)
	}
	if snap.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveGraph inserts or replaces the graph for its directory.
func (s *Store) SaveGraph(ctx context.Context, g *tenk.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graphs (directory, payload, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (directory) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at
	`, g.Directory, string(payload), g.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// LoadGraph returns the graph for dir, or ENOTFOUND.
func (s *Store) LoadGraph(ctx context.Context, dir string) (*tenk.Graph, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM graphs WHERE directory = ?`, tenk.CleanDir(dir)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no graph persisted for %s", dir)
	} else if err != nil {
		return nil, err
	}

	var g tenk.Graph
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "decode graph: %v", err)
	}
	return &g, nil
}
