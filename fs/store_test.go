package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(dir string, year tenk.Year) *tenk.IndexSnapshot {
	records := []*tenk.FilingRecord{{ID: "r1", Year: year, Text: "Risk factors", Section: "Item 1A. Risk Factors"}}
	return &tenk.IndexSnapshot{
		Directory:   tenk.CleanDir(dir),
		Year:        year,
		Engine:      tenk.EngineVector,
		Model:       "text-embedding-3-small",
		ContentHash: tenk.ContentHash(records),
		Records:     records,
		Vectors:     [][]float32{{0.6, 0.8}},
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func graph(dir string) *tenk.Graph {
	return &tenk.Graph{
		Directory: tenk.CleanDir(dir),
		RootType:  tenk.IndexStructList,
		Years:     tenk.FiscalYears(),
		Summaries: map[tenk.Year]string{
			2019: tenk.SummaryText("UBER", 2019),
			2020: tenk.SummaryText("UBER", 2020),
			2021: tenk.SummaryText("UBER", 2021),
			2022: tenk.SummaryText("UBER", 2022),
		},
		IndexHashes: map[tenk.Year]string{2019: "a", 2020: "b", 2021: "c", 2022: "d"},
	}
}

func TestStore_Index(t *testing.T) {
	t.Parallel()

	t.Run("round trips a snapshot", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)
		want := snapshot("data", 2021)

		require.NoError(t, s.SaveIndex(context.Background(), want))
		got, err := s.LoadIndex(context.Background(), "./data", 2021)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.FileExists(t, filepath.Join(root, fs.DirKey("data"), "index_2021.json"))
	})

	t.Run("missing snapshot is not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewStore(t.TempDir()).LoadIndex(context.Background(), "data", 2019)

		assert.Equal(t, tenk.ENOTFOUND, tenk.ErrorCode(err))
	})

	t.Run("snapshot of another directory is not found", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())
		require.NoError(t, s.SaveIndex(context.Background(), snapshot("data", 2020)))

		_, err := s.LoadIndex(context.Background(), "other", 2020)

		assert.Equal(t, tenk.ENOTFOUND, tenk.ErrorCode(err))
	})

	t.Run("directories keep separate snapshots", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())
		require.NoError(t, s.SaveIndex(context.Background(), snapshot("data", 2020)))
		require.NoError(t, s.SaveIndex(context.Background(), snapshot("other", 2020)))

		got, err := s.LoadIndex(context.Background(), "data", 2020)
		require.NoError(t, err)
		assert.Equal(t, tenk.CleanDir("data"), got.Directory)

		got, err = s.LoadIndex(context.Background(), "./other/", 2020)
		require.NoError(t, err)
		assert.Equal(t, tenk.CleanDir("other"), got.Directory)
	})

	t.Run("corrupt file is invalid", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		sub := filepath.Join(root, fs.DirKey("data"))
		require.NoError(t, os.MkdirAll(sub, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "index_2022.json"), []byte("{"), 0o644))

		_, err := fs.NewStore(root).LoadIndex(context.Background(), "data", 2022)

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})

	t.Run("rejects invalid snapshots", func(t *testing.T) {
		t.Parallel()

		snap := snapshot("data", 2022)
		snap.Year = 2018

		err := fs.NewStore(t.TempDir()).SaveIndex(context.Background(), snap)

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})

	t.Run("concurrent saves leave every year readable", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())

		var wg sync.WaitGroup
		for _, y := range tenk.FiscalYears() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.SaveIndex(context.Background(), snapshot("data", y)))
			}()
		}
		wg.Wait()

		for _, y := range tenk.FiscalYears() {
			got, err := s.LoadIndex(context.Background(), "data", y)
			require.NoError(t, err)
			assert.Equal(t, y, got.Year)
		}
	})
}

func TestStore_Graph(t *testing.T) {
	t.Parallel()

	t.Run("round trips a graph", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)
		want := graph("data")

		require.NoError(t, s.SaveGraph(context.Background(), want))
		got, err := s.LoadGraph(context.Background(), "data")

		require.NoError(t, err)
		assert.Equal(t, want.Summaries, got.Summaries)
		assert.Equal(t, want.IndexHashes, got.IndexHashes)
		assert.Equal(t, want.Years, got.Years)
		assert.FileExists(t, filepath.Join(root, fs.DirKey("./data"), fs.GraphFile))
	})

	t.Run("missing graph is not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewStore(t.TempDir()).LoadGraph(context.Background(), "data")

		assert.Equal(t, tenk.ENOTFOUND, tenk.ErrorCode(err))
	})

	t.Run("graph of another directory is not found", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())
		require.NoError(t, s.SaveGraph(context.Background(), graph("data")))

		_, err := s.LoadGraph(context.Background(), "other")

		assert.Equal(t, tenk.ENOTFOUND, tenk.ErrorCode(err))
	})

	t.Run("directories keep separate graphs", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())
		require.NoError(t, s.SaveGraph(context.Background(), graph("data")))
		require.NoError(t, s.SaveGraph(context.Background(), graph("other")))

		got, err := s.LoadGraph(context.Background(), "data")
		require.NoError(t, err)
		assert.Equal(t, tenk.CleanDir("data"), got.Directory)

		got, err = s.LoadGraph(context.Background(), "other")
		require.NoError(t, err)
		assert.Equal(t, tenk.CleanDir("other"), got.Directory)
	})
}
