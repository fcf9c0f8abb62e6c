package tenk

import "context"

// Default language model parameters.
const (
	DefaultTemperature = 0
	DefaultMaxTokens   = 512
)

// Generator produces text completions with an external language model.
type Generator interface {
	// Generate returns the completion for prompt.
	// Returns EUNAUTHORIZED if cred carries no API key.
	Generate(ctx context.Context, cred Credential, prompt string) (string, error)
}

// Embedder maps texts to vectors with an external embedding model.
type Embedder interface {
	// Model names the embedding model, stored with persisted vectors.
	Model() string

	// Embed returns one vector per text, in order.
	// Returns EUNAUTHORIZED if cred carries no API key.
	Embed(ctx context.Context, cred Credential, texts []string) ([][]float32, error)
}
