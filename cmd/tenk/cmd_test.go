package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/tenk"
	main "github.com/fwojciec/tenk/cmd/tenk"
	"github.com/fwojciec/tenk/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCred = tenk.Credential{APIKey: "sk-test"}

func result(year tenk.Year, text string) *tenk.TextResult {
	return &tenk.TextResult{Record: &tenk.FilingRecord{ID: "doc-1", Year: year, Text: text}, Score: 1}
}

func testDeps(queries tenk.QueryService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cfg := tenk.DefaultConfig()
	cfg.DataDir = "/data"
	return &main.Dependencies{
		Ctx:        context.Background(),
		Stdout:     stdout,
		Stderr:     stderr,
		Config:     cfg,
		Credential: testCred,
		Queries:    queries,
	}, stdout, stderr
}

func TestQueryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the fragments of one year", func(t *testing.T) {
		t.Parallel()

		var gotDir, gotQuery string
		var gotYear tenk.Year
		var gotK int
		queries := &mock.QueryService{
			QueryYearFn: func(_ context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) ([]*tenk.TextResult, error) {
				gotDir, gotYear, gotQuery, gotK = dir, year, query, k
				return []*tenk.TextResult{result(year, "Drivers may be classified as employees.")}, nil
			},
		}
		deps, stdout, stderr := testDeps(queries)

		cmd := &main.QueryCmd{Year: 2020, Query: "driver classification", TopK: 2}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "/data", gotDir)
		assert.Equal(t, tenk.Year(2020), gotYear)
		assert.Equal(t, "driver classification", gotQuery)
		assert.Equal(t, 2, gotK)
		assert.Contains(t, stdout.String(), "Response for year 2020")
		assert.Contains(t, stdout.String(), "Drivers may be classified as employees.")
		assert.Empty(t, stderr.String())
	})

	t.Run("falls back to the query type question", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		queries := &mock.QueryService{
			QueryYearFn: func(_ context.Context, _ tenk.Credential, _ string, _ tenk.Year, query string, _ int) ([]*tenk.TextResult, error) {
				gotQuery = query
				return nil, nil
			},
		}
		deps, stdout, _ := testDeps(queries)

		cmd := &main.QueryCmd{Year: 2019, Type: string(tenk.QueryTypeAcquisitions)}
		require.NoError(t, cmd.Run(deps))

		want, _ := tenk.QueryTypeAcquisitions.Question()
		assert.Equal(t, want, gotQuery)
		assert.Contains(t, stdout.String(), "No matching text.")
	})

	t.Run("rejects an unknown query type", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(&mock.QueryService{})

		cmd := &main.QueryCmd{Year: 2019, Type: "Dividends"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: unknown query type")
	})

	t.Run("synthesizes an answer when asked", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			AnswerYearFn: func(_ context.Context, _ tenk.Credential, _ string, year tenk.Year, _ string, _ int) (*tenk.SynthesizedAnswer, error) {
				return &tenk.SynthesizedAnswer{
					Text:    "Regulation is the main risk.",
					Sources: []*tenk.TextResult{result(year, "Regulatory changes could harm our business.")},
				}, nil
			},
		}
		deps, stdout, _ := testDeps(queries)

		cmd := &main.QueryCmd{Year: 2021, Query: "risks", Answer: true}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Regulation is the main risk.")
		assert.Contains(t, stdout.String(), "> Source (Year: 2021, Doc id: doc-1): Regulatory changes could harm our business.")
	})

	t.Run("prints the error message on failure", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			QueryYearFn: func(context.Context, tenk.Credential, string, tenk.Year, string, int) ([]*tenk.TextResult, error) {
				return nil, tenk.Errorf(tenk.ENOTFOUND, "filing for 2019 not found")
			},
		}
		deps, stdout, stderr := testDeps(queries)

		cmd := &main.QueryCmd{Year: 2019, Query: "risks"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: filing for 2019 not found")
		assert.Empty(t, stdout.String())
	})
}

func TestGlobalCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints every year newest first", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			QueryAllYearsFn: func(context.Context, tenk.Credential, string, string, int) (map[tenk.Year][]*tenk.TextResult, error) {
				out := make(map[tenk.Year][]*tenk.TextResult)
				for _, y := range tenk.FiscalYears() {
					out[y] = []*tenk.TextResult{result(y, "text of "+y.String())}
				}
				return out, nil
			},
		}
		deps, stdout, _ := testDeps(queries)

		cmd := &main.GlobalCmd{Query: "risks"}
		require.NoError(t, cmd.Run(deps))

		got := stdout.String()
		i2022 := bytes.Index([]byte(got), []byte("Response for year 2022"))
		i2019 := bytes.Index([]byte(got), []byte("Response for year 2019"))
		require.GreaterOrEqual(t, i2022, 0)
		require.GreaterOrEqual(t, i2019, 0)
		assert.Less(t, i2022, i2019)
		assert.Contains(t, got, "text of 2021")
	})

	t.Run("returns the error", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			QueryAllYearsFn: func(context.Context, tenk.Credential, string, string, int) (map[tenk.Year][]*tenk.TextResult, error) {
				return nil, tenk.Errorf(tenk.EUNAUTHORIZED, "API key required")
			},
		}
		deps, _, stderr := testDeps(queries)

		err := (&main.GlobalCmd{Query: "risks"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: API key required")
	})
}

func TestGraphCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("defaults to the risk summary question", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		queries := &mock.QueryService{
			QueryGraphFn: func(_ context.Context, _ tenk.Credential, _ string, query string) (*tenk.SynthesizedAnswer, error) {
				gotQuery = query
				return &tenk.SynthesizedAnswer{Text: "Risks grew each year."}, nil
			},
		}
		deps, stdout, _ := testDeps(queries)

		require.NoError(t, (&main.GraphCmd{}).Run(deps))

		assert.Equal(t, tenk.RiskSummaryQuestion, gotQuery)
		assert.Contains(t, stdout.String(), "Risks grew each year.")
		assert.NotContains(t, stdout.String(), "Sources")
	})

	t.Run("returns the error", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			QueryGraphFn: func(context.Context, tenk.Credential, string, string) (*tenk.SynthesizedAnswer, error) {
				return nil, tenk.Errorf(tenk.EUNAUTHORIZED, "API key required")
			},
		}
		deps, _, stderr := testDeps(queries)

		err := (&main.GraphCmd{Query: "risks"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, tenk.EUNAUTHORIZED, tenk.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: API key required")
	})
}

func TestBuildCmd_Run(t *testing.T) {
	t.Parallel()

	newSet := func(t *testing.T) *tenk.IndexSet {
		t.Helper()
		indexes := make(map[tenk.Year]tenk.Index)
		for _, y := range tenk.FiscalYears() {
			indexes[y] = &mock.Index{
				YearFn: func() tenk.Year { return y },
				LenFn:  func() int { return int(y) - 2000 },
			}
		}
		set, err := tenk.NewIndexSet("/data", indexes, false)
		require.NoError(t, err)
		return set
	}

	t.Run("builds indexes and the graph", func(t *testing.T) {
		t.Parallel()

		set := newSet(t)
		deps, stdout, _ := testDeps(nil)
		deps.Indexes = &mock.IndexSetBuilder{
			BuildIndexSetFn: func(_ context.Context, _ tenk.Credential, dir string) (*tenk.IndexSet, error) {
				assert.Equal(t, "/data", dir)
				return set, nil
			},
		}
		var graphed bool
		deps.Graphs = &mock.GraphService{
			GraphFn: func(_ context.Context, _ tenk.Credential, got *tenk.IndexSet) (*tenk.Graph, error) {
				graphed = true
				assert.Same(t, set, got)
				return &tenk.Graph{Years: got.Years()}, nil
			},
		}

		require.NoError(t, (&main.BuildCmd{}).Run(deps))

		assert.True(t, graphed)
		assert.Contains(t, stdout.String(), "2019  19 records")
		assert.Contains(t, stdout.String(), "2022  22 records")
		assert.Contains(t, stdout.String(), "graph  4 years")
	})

	t.Run("skips the graph", func(t *testing.T) {
		t.Parallel()

		set := newSet(t)
		deps, stdout, _ := testDeps(nil)
		deps.Indexes = &mock.IndexSetBuilder{
			BuildIndexSetFn: func(context.Context, tenk.Credential, string) (*tenk.IndexSet, error) {
				return set, nil
			},
		}
		deps.Graphs = &mock.GraphService{}

		require.NoError(t, (&main.BuildCmd{SkipGraph: true}).Run(deps))

		assert.NotContains(t, stdout.String(), "graph")
	})

	t.Run("returns build errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(nil)
		deps.Indexes = &mock.IndexSetBuilder{
			BuildIndexSetFn: func(context.Context, tenk.Credential, string) (*tenk.IndexSet, error) {
				return nil, tenk.Errorf(tenk.ENOTFOUND, "filing for 2022 not found")
			},
		}

		err := (&main.BuildCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: filing for 2022 not found")
	})
}
