// Package textsplitter splits filing Markdown with langchaingo's recursive
// character splitter.
package textsplitter

import (
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/tmc/langchaingo/textsplitter"
)

// Ensure Splitter implements tenk.Splitter at compile time.
var _ tenk.Splitter = (*Splitter)(nil)

// Default sizes, in characters.
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
)

// markdownSeparators prefer section and paragraph boundaries, then table
// rows, then sentences.
var markdownSeparators = []string{
	"\n## ",
	"\n### ",
	"\n\n",
	"\n|",
	"\n",
	". ",
	" ",
	"",
}

// Splitter splits Markdown into overlapping pieces.
type Splitter struct {
	splitter textsplitter.TextSplitter
}

// NewSplitter returns a Splitter producing pieces of at most chunkSize
// characters with chunkOverlap characters shared between neighbours.
// Non-positive values select the defaults.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = min(DefaultChunkOverlap, chunkSize/10)
	}
	return &Splitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(markdownSeparators),
		),
	}
}

// Split returns the non-blank pieces of text.
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parts, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINTERNAL, "split text: %v", err)
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
