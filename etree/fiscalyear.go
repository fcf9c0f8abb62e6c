// Package etree reads inline XBRL facts from filing documents with etree.
package etree

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/tenk"
)

// Ensure FiscalYearReader implements tenk.FiscalYearReader at compile time.
var _ tenk.FiscalYearReader = (*FiscalYearReader)(nil)

const (
	fiscalYearFocusPath = "//ix:nonNumeric[@name='dei:DocumentFiscalYearFocus']"
	periodEndDatePath   = "//ix:nonNumeric[@name='dei:DocumentPeriodEndDate']"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// FiscalYearReader reads the dei:DocumentFiscalYearFocus fact of an inline
// XBRL filing, falling back to the year of dei:DocumentPeriodEndDate.
type FiscalYearReader struct{}

// NewFiscalYearReader creates a new FiscalYearReader.
func NewFiscalYearReader() *FiscalYearReader {
	return &FiscalYearReader{}
}

// ReadFiscalYear returns the year the filing declares, or false when the
// document is not parseable or carries neither fact.
func (r *FiscalYearReader) ReadFiscalYear(html string) (tenk.Year, bool) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromString(html); err != nil {
		return 0, false
	}

	for _, path := range []string{fiscalYearFocusPath, periodEndDatePath} {
		for _, el := range doc.FindElements(path) {
			if y, ok := parseYear(el.Text()); ok {
				return y, true
			}
		}
	}
	return 0, false
}

func parseYear(s string) (tenk.Year, bool) {
	m := yearPattern.FindAllString(strings.TrimSpace(s), -1)
	if len(m) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(m[len(m)-1])
	if err != nil {
		return 0, false
	}
	return tenk.Year(n), true
}
