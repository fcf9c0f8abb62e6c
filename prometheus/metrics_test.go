package prometheus_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/mock"
	tenkprom "github.com/fwojciec/tenk/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCred = tenk.Credential{APIKey: "sk-test"}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	m := tenkprom.NewMetrics()
	calls := 0
	gen := tenkprom.NewGenerator(&mock.Generator{
		GenerateFn: func(context.Context, tenk.Credential, string) (string, error) {
			calls++
			if calls == 2 {
				return "", tenk.Errorf(tenk.EUNAUTHORIZED, "invalid API key")
			}
			return "ok", nil
		},
	}, m)

	_, err := gen.Generate(context.Background(), testCred, "a")
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), testCred, "b")
	require.Error(t, err)

	expected := `
# HELP tenk_llm_calls_total Calls to the external language model and embedding services.
# TYPE tenk_llm_calls_total counter
tenk_llm_calls_total{service="generate"} 2
# HELP tenk_llm_errors_total Failed calls to the external services by error code.
# TYPE tenk_llm_errors_total counter
tenk_llm_errors_total{code="unauthorized",service="generate"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected),
		"tenk_llm_calls_total", "tenk_llm_errors_total"))

	n, err := testutil.GatherAndCount(m.Registry, "tenk_llm_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	m := tenkprom.NewMetrics()
	emb := tenkprom.NewEmbedder(&mock.Embedder{
		ModelFn: func() string { return "text-embedding-004" },
		EmbedFn: func(context.Context, tenk.Credential, []string) ([][]float32, error) {
			return nil, errors.New("connection reset")
		},
	}, m)

	_, err := emb.Embed(context.Background(), testCred, []string{"a", "b", "c"})

	require.Error(t, err)
	assert.Equal(t, "text-embedding-004", emb.Model())
	expected := `
# HELP tenk_embedded_texts_total Texts sent to the embedding service.
# TYPE tenk_embedded_texts_total counter
tenk_embedded_texts_total 3
# HELP tenk_llm_errors_total Failed calls to the external services by error code.
# TYPE tenk_llm_errors_total counter
tenk_llm_errors_total{code="internal",service="embed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected),
		"tenk_embedded_texts_total", "tenk_llm_errors_total"))
}

func TestMetrics_RegisterCache(t *testing.T) {
	t.Parallel()

	t.Run("reads stats on scrape", func(t *testing.T) {
		t.Parallel()

		m := tenkprom.NewMetrics()
		stats := tenk.CacheStats{Hits: 3, Misses: 1, Builds: 1, Entries: 1}
		require.NoError(t, m.RegisterCache(func() tenk.CacheStats { return stats }))

		stats.Hits = 5

		expected := `
# HELP tenk_index_cache_entries Index Sets currently cached.
# TYPE tenk_index_cache_entries gauge
tenk_index_cache_entries 1
# HELP tenk_index_cache_hits_total Index Set lookups served from the cache.
# TYPE tenk_index_cache_hits_total counter
tenk_index_cache_hits_total 5
`
		require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected),
			"tenk_index_cache_hits_total", "tenk_index_cache_entries"))
	})

	t.Run("rejects second registration", func(t *testing.T) {
		t.Parallel()

		m := tenkprom.NewMetrics()
		stats := func() tenk.CacheStats { return tenk.CacheStats{} }
		require.NoError(t, m.RegisterCache(stats))

		assert.Error(t, m.RegisterCache(stats))
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := tenkprom.NewMetrics()
	require.NoError(t, m.RegisterCache(func() tenk.CacheStats { return tenk.CacheStats{Misses: 2} }))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "tenk_index_cache_misses_total 2")
	assert.Contains(t, string(body), "go_goroutines")
}
