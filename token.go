package tenk

import "context"

// TokenCounter counts the prompt tokens of text for the configured model.
// The synthesizer uses it to pack retrieved filing text into one prompt.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
