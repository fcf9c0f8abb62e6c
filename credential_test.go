package tenk_test

import (
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureCredential(t *testing.T) {
	t.Parallel()

	t.Run("keeps trimmed key without warning", func(t *testing.T) {
		t.Parallel()

		var warnings []string
		cred := tenk.CaptureCredential("  sk-test  ", func(msg string) { warnings = append(warnings, msg) })

		assert.Equal(t, "sk-test", cred.APIKey)
		assert.True(t, cred.Available())
		assert.Empty(t, warnings)
	})

	t.Run("warns on empty key and returns empty credential", func(t *testing.T) {
		t.Parallel()

		var warnings []string
		cred := tenk.CaptureCredential("   ", func(msg string) { warnings = append(warnings, msg) })

		assert.False(t, cred.Available())
		require.Len(t, warnings, 1)
		assert.Equal(t, tenk.MissingCredentialWarning, warnings[0])
	})

	t.Run("nil warn func is allowed", func(t *testing.T) {
		t.Parallel()

		cred := tenk.CaptureCredential("", nil)

		assert.False(t, cred.Available())
	})
}

func TestCredential_Require(t *testing.T) {
	t.Parallel()

	err := tenk.Credential{}.Require()
	require.Error(t, err)
	assert.Equal(t, tenk.EUNAUTHORIZED, tenk.ErrorCode(err))

	assert.NoError(t, tenk.Credential{APIKey: "k"}.Require())
}

func TestCredential_StringHidesKey(t *testing.T) {
	t.Parallel()

	assert.NotContains(t, tenk.Credential{APIKey: "sk-secret"}.String(), "sk-secret")
}
