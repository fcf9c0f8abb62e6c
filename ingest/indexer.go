package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/tenk"
	"golang.org/x/sync/errgroup"
)

// Ensure Indexer implements tenk.IndexSetBuilder at compile time.
var _ tenk.IndexSetBuilder = (*Indexer)(nil)

// ProgressEvent reports progress while an Index Set is built.
type ProgressEvent struct {
	Type    ProgressType
	Year    tenk.Year
	Records int
	Error   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressLoaded ProgressType = iota
	ProgressRestored
	ProgressBuilt
	ProgressSaveFailed
)

// ProgressFunc is a callback for reporting build progress. Years are built
// concurrently, so it may be called from several goroutines at once.
type ProgressFunc func(event ProgressEvent)

// Indexer loads filings and builds one index per fiscal year.
// Persisted snapshots are reused when their content hash, engine and
// directory match the freshly loaded filings.
type Indexer struct {
	Loader  tenk.FilingLoader
	Builder tenk.IndexBuilder

	// Store is optional. Without it every call builds from scratch.
	Store tenk.IndexStore

	Concurrency int
	Logger      *slog.Logger
	Progress    ProgressFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// BuildIndexSet builds the Index Set for dir. The credential is checked
// before any file is read when the engine needs it.
func (ix *Indexer) BuildIndexSet(ctx context.Context, cred tenk.Credential, dir string) (*tenk.IndexSet, error) {
	if ix.Builder.RequiresCredential() {
		if err := cred.Require(); err != nil {
			return nil, err
		}
	}

	dir = tenk.CleanDir(dir)

	byYear, err := ix.Loader.LoadFilings(ctx, dir)
	if err != nil {
		return nil, err
	}
	for _, y := range tenk.FiscalYears() {
		ix.report(ProgressEvent{Type: ProgressLoaded, Year: y, Records: len(byYear[y])})
	}

	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var mu sync.Mutex
	indexes := make(map[tenk.Year]tenk.Index, len(byYear))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, year := range tenk.FiscalYears() {
		records := byYear[year]
		g.Go(func() error {
			idx, err := ix.indexYear(gctx, cred, dir, year, records)
			if err != nil {
				return err
			}
			mu.Lock()
			indexes[year] = idx
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tenk.NewIndexSet(dir, indexes, ix.Builder.RequiresCredential())
}

func (ix *Indexer) indexYear(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, records []*tenk.FilingRecord) (tenk.Index, error) {
	hash := tenk.ContentHash(records)

	if idx := ix.restore(ctx, dir, year, hash); idx != nil {
		ix.report(ProgressEvent{Type: ProgressRestored, Year: year, Records: idx.Len()})
		return idx, nil
	}

	idx, err := ix.Builder.BuildIndex(ctx, cred, year, records)
	if err != nil {
		return nil, err
	}
	ix.report(ProgressEvent{Type: ProgressBuilt, Year: year, Records: idx.Len()})

	if ix.Store == nil {
		return idx, nil
	}

	snap := idx.Snapshot()
	snap.Directory = dir
	snap.ContentHash = hash
	snap.CreatedAt = ix.now()
	if err := ix.Store.SaveIndex(ctx, snap); err != nil {
		ix.logger().Warn("failed to persist index", "dir", dir, "year", int(year), "error", err)
		ix.report(ProgressEvent{Type: ProgressSaveFailed, Year: year, Error: err})
	}
	return idx, nil
}

// restore returns the persisted index for year, or nil when there is none
// or it no longer matches the filings.
func (ix *Indexer) restore(ctx context.Context, dir string, year tenk.Year, hash string) tenk.Index {
	if ix.Store == nil {
		return nil
	}

	snap, err := ix.Store.LoadIndex(ctx, dir, year)
	if tenk.ErrorCode(err) == tenk.ENOTFOUND {
		return nil
	} else if err != nil {
		ix.logger().Warn("failed to load persisted index", "dir", dir, "year", int(year), "error", err)
		return nil
	}

	if snap.Directory != dir || snap.Engine != ix.Builder.Engine() || snap.ContentHash != hash {
		ix.logger().Info("persisted index is stale", "dir", dir, "year", int(year))
		return nil
	}

	idx, err := ix.Builder.RestoreIndex(ctx, snap)
	if err != nil {
		ix.logger().Info("persisted index not reusable", "dir", dir, "year", int(year), "error", err)
		return nil
	}
	return idx
}

func (ix *Indexer) report(event ProgressEvent) {
	if ix.Progress != nil {
		ix.Progress(event)
	}
}

func (ix *Indexer) now() time.Time {
	if ix.Now != nil {
		return ix.Now()
	}
	return time.Now()
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger != nil {
		return ix.Logger
	}
	return slog.New(slog.DiscardHandler)
}
