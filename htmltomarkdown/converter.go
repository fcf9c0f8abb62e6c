// Package htmltomarkdown converts filing HTML to Markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/tenk"
)

// Ensure Converter implements tenk.Converter at compile time.
var _ tenk.Converter = (*Converter)(nil)

// excessBlankLines matches runs of three or more newlines. EDGAR filings
// render page breaks and spacer divs as long runs of empty paragraphs.
var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// Converter wraps html-to-markdown. Tables are kept as Markdown tables so
// that financial statements survive chunking.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms filing HTML into normalized Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", tenk.Errorf(tenk.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	md = strings.ReplaceAll(md, "\u00a0", " ")
	md = excessBlankLines.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md), nil
}
