package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var (
	_ tenk.FilingLoader     = (*FilingLoader)(nil)
	_ tenk.FilingParser     = (*FilingParser)(nil)
	_ tenk.Splitter         = (*Splitter)(nil)
	_ tenk.FiscalYearReader = (*FiscalYearReader)(nil)
)

// FilingLoader is a mock implementation of tenk.FilingLoader.
type FilingLoader struct {
	LoadFilingsFn func(ctx context.Context, dir string) (map[tenk.Year][]*tenk.FilingRecord, error)
}

func (l *FilingLoader) LoadFilings(ctx context.Context, dir string) (map[tenk.Year][]*tenk.FilingRecord, error) {
	return l.LoadFilingsFn(ctx, dir)
}

// FilingParser is a mock implementation of tenk.FilingParser.
type FilingParser struct {
	ParseFn func(html string) ([]*tenk.ParsedText, error)
}

func (p *FilingParser) Parse(html string) ([]*tenk.ParsedText, error) {
	return p.ParseFn(html)
}

// Splitter is a mock implementation of tenk.Splitter.
type Splitter struct {
	SplitFn func(text string) ([]string, error)
}

func (s *Splitter) Split(text string) ([]string, error) {
	return s.SplitFn(text)
}

// FiscalYearReader is a mock implementation of tenk.FiscalYearReader.
type FiscalYearReader struct {
	ReadFiscalYearFn func(html string) (tenk.Year, bool)
}

func (r *FiscalYearReader) ReadFiscalYear(html string) (tenk.Year, bool) {
	return r.ReadFiscalYearFn(html)
}
