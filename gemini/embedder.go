package gemini

import (
	"context"

	"github.com/fwojciec/tenk"
	"google.golang.org/genai"
)

// Ensure Embedder implements tenk.Embedder at compile time.
var _ tenk.Embedder = (*Embedder)(nil)

// Embedder implements tenk.Embedder using Gemini embedding models.
type Embedder struct {
	EmbeddingModel string
	BaseURL        string
}

// NewEmbedder returns an Embedder for model.
func NewEmbedder(model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{EmbeddingModel: model}
}

// Model returns the embedding model name.
func (e *Embedder) Model() string { return e.EmbeddingModel }

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, cred tenk.Credential, texts []string) ([][]float32, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}

	client, err := newClient(ctx, cred, e.BaseURL)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := client.Models.EmbedContent(ctx, e.EmbeddingModel, contents, nil)
	if err != nil {
		return nil, translateError(err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, tenk.Errorf(tenk.EINTERNAL, "gemini returned wrong number of embeddings")
	}

	out := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		out[i] = emb.Values
	}
	return out, nil
}
