// Package goquery extracts the readable body of filing pages with goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tenk"
)

// Ensure Extractor implements tenk.Extractor at compile time.
var _ tenk.Extractor = (*Extractor)(nil)

// removeSelectors match elements that never carry filing prose. Inline XBRL
// filings keep their machine-readable header in a hidden ix:header block.
var removeSelectors = []string{
	"script",
	"style",
	"noscript",
	"template",
	`ix\:header`,
	`[style*="display:none"]`,
	`[style*="display: none"]`,
	`[hidden]`,
}

// Extractor strips non-content elements from filing HTML and returns the body.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title and cleaned body HTML of a filing page.
func (e *Extractor) Extract(html string) (*tenk.ExtractResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, tenk.Errorf(tenk.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	for _, sel := range removeSelectors {
		doc.Find(sel).Remove()
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}

	content, err := body.Html()
	if err != nil {
		return nil, err
	}

	return &tenk.ExtractResult{
		Title:       title,
		ContentHTML: strings.TrimSpace(content),
	}, nil
}
