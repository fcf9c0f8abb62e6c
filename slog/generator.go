package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure LoggingGenerator implements tenk.Generator.
var _ tenk.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging of every completion.
type LoggingGenerator struct {
	next   tenk.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next tenk.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs prompt and
// completion sizes. The prompt text is never logged.
func (g *LoggingGenerator) Generate(ctx context.Context, cred tenk.Credential, prompt string) (text string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"prompt_bytes", len(prompt),
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, cred, prompt)
}

// Ensure LoggingEmbedder implements tenk.Embedder.
var _ tenk.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with logging of every batch.
type LoggingEmbedder struct {
	next   tenk.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next tenk.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Model delegates to the wrapped embedder.
func (e *LoggingEmbedder) Model() string {
	return e.next.Model()
}

// Embed delegates to the wrapped embedder and logs the batch size.
func (e *LoggingEmbedder) Embed(ctx context.Context, cred tenk.Credential, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed",
			"model", e.next.Model(),
			"texts", len(texts),
			"vectors", len(vecs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, cred, texts)
}
