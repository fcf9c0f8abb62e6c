package tenk_test

import (
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts default graph configs", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, tenk.DefaultGraphQueryConfigs().Validate())
	})

	t.Run("rejects unknown struct type", func(t *testing.T) {
		t.Parallel()

		err := tenk.QueryConfig{IndexStructType: "tree", ResponseMode: tenk.ResponseModeDefault}.Validate()
		require.Error(t, err)
		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})

	t.Run("rejects unknown response mode", func(t *testing.T) {
		t.Parallel()

		err := tenk.QueryConfig{IndexStructType: tenk.IndexStructList, ResponseMode: "compact"}.Validate()
		require.Error(t, err)
		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})

	t.Run("rejects negative top k", func(t *testing.T) {
		t.Parallel()

		err := tenk.QueryConfig{IndexStructType: tenk.IndexStructDict, ResponseMode: tenk.ResponseModeDefault, SimilarityTopK: -1}.Validate()
		require.Error(t, err)
	})

	t.Run("rejects duplicate struct types", func(t *testing.T) {
		t.Parallel()

		cs := tenk.QueryConfigs{
			{IndexStructType: tenk.IndexStructDict, ResponseMode: tenk.ResponseModeDefault},
			{IndexStructType: tenk.IndexStructDict, ResponseMode: tenk.ResponseModeTreeSummarize},
		}
		require.Error(t, cs.Validate())
	})
}

func TestQueryConfigs_For(t *testing.T) {
	t.Parallel()

	cs := tenk.DefaultGraphQueryConfigs()

	dict := cs.For(tenk.IndexStructDict)
	assert.Equal(t, 1, dict.SimilarityTopK)
	assert.Equal(t, tenk.ResponseModeDefault, dict.ResponseMode)

	list := cs.For(tenk.IndexStructList)
	assert.Equal(t, tenk.ResponseModeTreeSummarize, list.ResponseMode)

	missing := tenk.QueryConfigs{}.For(tenk.IndexStructList)
	assert.Equal(t, tenk.ResponseModeDefault, missing.ResponseMode)
	assert.Equal(t, 3, missing.TopK(3))
}

func TestQueryType_Question(t *testing.T) {
	t.Parallel()

	q, err := tenk.QueryTypeRiskFactors.Question()
	require.NoError(t, err)
	assert.Equal(t, "What are some of the biggest risk factors in each year?", q)

	q, err = tenk.QueryTypeAcquisitions.Question()
	require.NoError(t, err)
	assert.Equal(t, "What were some of the significant acquisitions?", q)

	_, err = tenk.QueryType("Weather").Question()
	assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
}

func TestResolveQuery(t *testing.T) {
	t.Parallel()

	t.Run("prefers free text", func(t *testing.T) {
		t.Parallel()

		got, err := tenk.ResolveQuery("  Who are the competitors? ", tenk.QueryTypeRiskFactors)

		require.NoError(t, err)
		assert.Equal(t, "Who are the competitors?", got)
	})

	t.Run("falls back to query type", func(t *testing.T) {
		t.Parallel()

		got, err := tenk.ResolveQuery("", tenk.QueryTypeAcquisitions)

		require.NoError(t, err)
		assert.Equal(t, "What were some of the significant acquisitions?", got)
	})

	t.Run("requires text or type", func(t *testing.T) {
		t.Parallel()

		_, err := tenk.ResolveQuery(" ", "")

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := tenk.ResolveQuery("", "Revenue")

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})
}
