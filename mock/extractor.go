package mock

import "github.com/fwojciec/tenk"

var _ tenk.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of tenk.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*tenk.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*tenk.ExtractResult, error) {
	return e.ExtractFn(html)
}
