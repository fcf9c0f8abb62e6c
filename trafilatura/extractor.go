// Package trafilatura extracts filing bodies with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements tenk.Extractor at compile time.
var _ tenk.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of a filing.
// Tables are kept because financial statements live in them.
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

	opts := trafilatura.Options{
		EnableFallback: true,
		ExcludeTables:  false,
		IncludeLinks:   false,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}
	if contentHTML == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "no filing content found")
	}

	return &tenk.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
