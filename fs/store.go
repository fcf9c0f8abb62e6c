// Package fs persists index snapshots and composable graphs as JSON files.
// Each data directory gets its own subfolder of the store root.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/tenk"
	"github.com/gofrs/flock"
)

// File names inside a data directory's subfolder. The lock file lives at the
// store root.
const (
	GraphFile = "10k_graph.json"
	lockFile  = ".tenk.lock"
)

// IndexFile returns the file name of a year's index snapshot.
func IndexFile(year tenk.Year) string {
	return fmt.Sprintf("index_%d.json", int(year))
}

// DirKey returns the name of the subfolder holding the files built from dir.
func DirKey(dir string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(tenk.CleanDir(dir)))
}

// Ensure Store implements tenk interfaces at compile time.
var (
	_ tenk.IndexStore = (*Store)(nil)
	_ tenk.GraphStore = (*Store)(nil)
)

// Store keeps one snapshot per fiscal year and one graph for every data
// directory, each under root/DirKey(dir). Snapshots also record the data
// directory they were built from; a snapshot for another directory is
// reported as not found. Writers hold an exclusive file
// lock, so several processes may share a store directory.
type Store struct {
	root string

	// mu serializes writers in this process; lock only excludes other
	// processes.
	mu   sync.Mutex
	lock *flock.Flock
}

// NewStore returns a Store writing to root.
func NewStore(root string) *Store {
	return &Store{
		root: root,
		lock: flock.New(filepath.Join(root, lockFile)),
	}
}

// SaveIndex writes snap to the index_{year}.json of its directory, replacing
// the previous file.
func (s *Store) SaveIndex(_ context.Context, snap *tenk.IndexSnapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	return s.write(snap.Directory, IndexFile(snap.Year), snap)
}

// LoadIndex reads the snapshot for year. Returns ENOTFOUND when the file is
// missing or was built from another directory.
func (s *Store) LoadIndex(_ context.Context, dir string, year tenk.Year) (*tenk.IndexSnapshot, error) {
	var snap tenk.IndexSnapshot
	if err := s.read(dir, IndexFile(year), &snap); err != nil {
		return nil, err
	}
	if snap.Year != year || snap.Directory != tenk.CleanDir(dir) {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no index persisted for %s year %d", dir, int(year))
	}
	return &snap, nil
}

// SaveGraph writes g to the 10k_graph.json of its directory, replacing the
// previous file.
func (s *Store) SaveGraph(_ context.Context, g *tenk.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.write(g.Directory, GraphFile, g)
}

// LoadGraph reads the graph for dir. Returns ENOTFOUND when the file is
// missing or was built from another directory.
func (s *Store) LoadGraph(_ context.Context, dir string) (*tenk.Graph, error) {
	var g tenk.Graph
	if err := s.read(dir, GraphFile, &g); err != nil {
		return nil, err
	}
	if g.Directory != tenk.CleanDir(dir) {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no graph persisted for %s", dir)
	}
	return &g, nil
}

// write encodes v to a temporary file and renames it into place.
func (s *Store) write(dir, name string, v any) error {
	sub := filepath.Join(s.root, DirKey(dir))
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(sub, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(sub, name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) read(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.root, DirKey(dir), name))
	if errors.Is(err, iofs.ErrNotExist) {
		return tenk.Errorf(tenk.ENOTFOUND, "%s not found", name)
	} else if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return tenk.Errorf(tenk.EINVALID, "decode %s: %v", name, err)
	}
	return nil
}
