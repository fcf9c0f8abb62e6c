package rate

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure decorators implement tenk interfaces at compile time.
var (
	_ tenk.Generator = (*Generator)(nil)
	_ tenk.Embedder  = (*Embedder)(nil)
)

// Generator throttles and retries a tenk.Generator.
type Generator struct {
	next        tenk.Generator
	limiter     *Limiter
	key         string
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// NewGenerator wraps next. Calls share the bucket named key in limiter.
func NewGenerator(next tenk.Generator, limiter *Limiter, key string) *Generator {
	return &Generator{next: next, limiter: limiter, key: key, RetryDelays: DefaultRetryDelays()}
}

// Generate waits for the limiter and calls the wrapped generator.
func (g *Generator) Generate(ctx context.Context, cred tenk.Credential, prompt string) (string, error) {
	return Do(ctx, g.RetryDelays, func() (string, error) {
		if err := g.limiter.Wait(ctx, g.key); err != nil {
			return "", err
		}
		return g.next.Generate(ctx, cred, prompt)
	}, retryLogger(g.Logger, "generate"))
}

// Embedder throttles and retries a tenk.Embedder.
type Embedder struct {
	next        tenk.Embedder
	limiter     *Limiter
	key         string
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// NewEmbedder wraps next. Calls share the bucket named key in limiter.
func NewEmbedder(next tenk.Embedder, limiter *Limiter, key string) *Embedder {
	return &Embedder{next: next, limiter: limiter, key: key, RetryDelays: DefaultRetryDelays()}
}

// Model returns the wrapped embedder's model.
func (e *Embedder) Model() string { return e.next.Model() }

// Embed waits for the limiter and calls the wrapped embedder.
func (e *Embedder) Embed(ctx context.Context, cred tenk.Credential, texts []string) ([][]float32, error) {
	return Do(ctx, e.RetryDelays, func() ([][]float32, error) {
		if err := e.limiter.Wait(ctx, e.key); err != nil {
			return nil, err
		}
		return e.next.Embed(ctx, cred, texts)
	}, retryLogger(e.Logger, "embed"))
}

func retryLogger(logger *slog.Logger, op string) func(int, error) {
	if logger == nil {
		return nil
	}
	return func(attempt int, err error) {
		logger.Warn("retrying service call", "op", op, "attempt", attempt, "error", err)
	}
}
