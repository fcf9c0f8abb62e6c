// Package gemini implements the language model, embedding and token counting
// services with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/fwojciec/tenk"
	"google.golang.org/genai"
)

// Default models.
const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultEmbeddingModel = "text-embedding-004"
)

const systemInstruction = "You answer questions about annual reports (Form 10-K) filed with the SEC. Answer only from the context you are given. If the context does not contain the answer, say so."

// Ensure Generator implements tenk.Generator at compile time.
var _ tenk.Generator = (*Generator)(nil)

// Generator implements tenk.Generator using Google Gemini.
// A client is created per call from the caller's credential.
type Generator struct {
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
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

	client, err := newClient(ctx, cred, g.BaseURL)
	if err != nil {
		return "", err
	}

	result, err := client.Models.GenerateContent(ctx, g.Model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(g.Temperature, g.MaxTokens),
	)
	if err != nil {
		return "", translateError(err)
	}
	if result == nil {
		return "", tenk.Errorf(tenk.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(temperature float32, maxTokens int) *genai.GenerateContentConfig {
	temp := temperature
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:     &temp,
		MaxOutputTokens: int32(maxTokens),
	}
}

func newClient(ctx context.Context, cred tenk.Credential, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  cred.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINTERNAL, "create gemini client: %v", err)
	}
	return client, nil
}

// translateError maps API failures to application error codes.
func translateError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return tenk.Errorf(tenk.EUNAUTHORIZED, "gemini rejected the API key: %s", apiErr.Message)
		case 400, 404:
			return tenk.Errorf(tenk.EINVALID, "gemini: %s", apiErr.Message)
		}
		return tenk.Errorf(tenk.EINTERNAL, "gemini: %s", apiErr.Message)
	}
	return err
}
