// Package readability extracts filing bodies with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements tenk.Extractor at compile time.
var _ tenk.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main content of a filing.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*tenk.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "no filing content found")
	}

	return &tenk.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
