// Package ingest turns 10-K filings on disk into per-year retrieval indexes.
// It coordinates extraction, conversion, splitting, persistence and index
// construction.
package ingest

import (
	"github.com/fwojciec/tenk"
)

// Ensure Parser implements tenk.FilingParser at compile time.
var _ tenk.FilingParser = (*Parser)(nil)

// Parser extracts a filing body, converts it to Markdown and splits it into
// pieces that each remember the heading they fall under.
type Parser struct {
	Extractor tenk.Extractor
	Converter tenk.Converter
	Splitter  tenk.Splitter
}

// Parse returns the filing text pieces in document order. A filing whose
// body holds no text yields no pieces.
func (p *Parser) Parse(html string) ([]*tenk.ParsedText, error) {
	extracted, err := p.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	md, err := p.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}

	out := []*tenk.ParsedText{}
	for _, block := range tenk.SplitSections(md) {
		parts, err := p.Splitter.Split(block.Text)
		if err != nil {
			return nil, err
		}
		for _, part := range parts {
			out = append(out, &tenk.ParsedText{Text: part, Section: block.Section.Title})
		}
	}

	return out, nil
}
