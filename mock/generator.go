package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var (
	_ tenk.Generator = (*Generator)(nil)
	_ tenk.Embedder  = (*Embedder)(nil)
)

// Generator is a mock implementation of tenk.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, cred tenk.Credential, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, cred tenk.Credential, prompt string) (string, error) {
	return g.GenerateFn(ctx, cred, prompt)
}

// Embedder is a mock implementation of tenk.Embedder.
type Embedder struct {
	ModelFn func() string
	EmbedFn func(ctx context.Context, cred tenk.Credential, texts []string) ([][]float32, error)
}

func (e *Embedder) Model() string {
	if e.ModelFn == nil {
		return "mock-embedding"
	}
	return e.ModelFn()
}

func (e *Embedder) Embed(ctx context.Context, cred tenk.Credential, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, cred, texts)
}
