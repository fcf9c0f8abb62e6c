// Package openai implements the language model and embedding services with
// the OpenAI API. A client is created per call from the caller's credential;
// no key is read from the process environment.
package openai

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/sashabaranov/go-openai"
)

// Default models.
const (
	DefaultModel          = "gpt-4o-mini"
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

const systemPrompt = "You answer questions about annual reports (Form 10-K) filed with the SEC. Answer only from the context you are given. If the context does not contain the answer, say so."

// Ensure types implement tenk interfaces at compile time.
var (
	_ tenk.Generator = (*Generator)(nil)
	_ tenk.Embedder  = (*Embedder)(nil)
)

// Generator implements tenk.Generator with chat completions.
type Generator struct {
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// NewGenerator returns a Generator with temperature 0 and 512 max tokens.
func NewGenerator(model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{Model: model, Temperature: tenk.DefaultTemperature, MaxTokens: tenk.DefaultMaxTokens}
}

// Generate returns the completion for prompt.
func (g *Generator) Generate(ctx context.Context, cred tenk.Credential, prompt string) (string, error) {
	if err := cred.Require(); err != nil {
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		return "", tenk.Errorf(tenk.EINVALID, "prompt required")
	}

	req := openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature(g.Temperature),
		MaxTokens:   g.MaxTokens,
	}

	resp, err := newClient(cred, g.BaseURL, g.HTTPClient).CreateChatCompletion(ctx, req)
	if err != nil {
		return "", translateError(err)
	}
	if len(resp.Choices) == 0 {
		return "", tenk.Errorf(tenk.EINTERNAL, "openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embedder implements tenk.Embedder with the embeddings endpoint.
type Embedder struct {
	EmbeddingModel string
	BaseURL        string
	HTTPClient     *http.Client
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

	resp, err := newClient(cred, e.BaseURL, e.HTTPClient).CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.EmbeddingModel),
	})
	if err != nil {
		return nil, translateError(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, tenk.Errorf(tenk.EINTERNAL, "openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := make([][]float32, len(data))
	for i, d := range data {
		out[i] = d.Embedding
	}
	return out, nil
}

func newClient(cred tenk.Credential, baseURL string, hc *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(cred.APIKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if hc != nil {
		cfg.HTTPClient = hc
	}
	return openai.NewClientWithConfig(cfg)
}

// temperature maps 0 to the smallest positive value; the API client omits a
// zero temperature, which the server then treats as 1.
func temperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// translateError maps API failures to application error codes.
func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return tenk.Errorf(tenk.EUNAUTHORIZED, "openai rejected the API key: %s", apiErr.Message)
		case http.StatusBadRequest, http.StatusNotFound:
			return tenk.Errorf(tenk.EINVALID, "openai: %s", apiErr.Message)
		}
		return tenk.Errorf(tenk.EINTERNAL, "openai: %s", apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusUnauthorized {
			return tenk.Errorf(tenk.EUNAUTHORIZED, "openai rejected the API key")
		}
	}
	return err
}
