package main_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/tenk"
	main "github.com/fwojciec/tenk/cmd/tenk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMain returns a Main isolated from the environment.
func newMain() *main.Main {
	m := main.NewMain()
	m.EnvFile = ""
	m.Getenv = func(string) string { return "" }
	return m
}

// writeFilings writes a small filing for every fiscal year under dir.
func writeFilings(t *testing.T, dir string) {
	t.Helper()
	for _, y := range tenk.FiscalYears() {
		path := tenk.FilingPath(dir, tenk.DefaultTicker, y)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		html := fmt.Sprintf(`<html><body>
<h2>Item 1A. Risk Factors</h2>
<p>In fiscal year %d, changes to driver classification laws could materially harm our business.</p>
<h2>Item 7. Management's Discussion</h2>
<p>Gross bookings grew across mobility and delivery in %d.</p>
</body></html>`, int(y), int(y))
		require.NoError(t, os.WriteFile(path, []byte(html), 0o644))
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no command prints usage", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := newMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := newMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "serve")
		assert.Contains(t, stdout.String(), "global")
	})

	t.Run("rejects an unknown engine", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		args := []string{"-c", filepath.Join(dir, "tenk.yaml"), "--engine", "keyword", "query", "2019", "risks"}

		err := newMain().Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown engine "keyword"`)
	})

	t.Run("rejects a malformed config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "tenk.yaml")
		require.NoError(t, os.WriteFile(path, []byte("engine: [vector\n"), 0o644))

		err := newMain().Run(context.Background(), []string{"-c", path, "graph"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("queries lexical indexes without an API key", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFilings(t, dir)

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		args := []string{
			"-c", filepath.Join(dir, "tenk.yaml"),
			"-d", dir,
			"--engine", "lexical",
			"--store", "none",
			"query", "2020", "driver classification",
		}

		m := newMain()
		err := m.Run(context.Background(), args, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), tenk.MissingCredentialWarning)
		assert.Contains(t, stdout.String(), "Response for year 2020")
		assert.Contains(t, stdout.String(), "driver classification")
	})

	t.Run("graph queries need an API key", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFilings(t, dir)

		stderr := &bytes.Buffer{}
		args := []string{
			"-c", filepath.Join(dir, "tenk.yaml"),
			"-d", dir,
			"--engine", "lexical",
			"--store", "none",
			"graph",
		}

		err := newMain().Run(context.Background(), args, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, tenk.EUNAUTHORIZED, tenk.ErrorCode(err))
	})
}
