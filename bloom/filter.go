// Package bloom suppresses repeated filing chunks using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter. Filings repeat boilerplate such as page
// headers and table-of-contents links, which would otherwise crowd the top-k
// results with identical text.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected chunks
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen reports whether text was probably added before and adds it.
// False positives are possible; false negatives are not.
func (f *Filter) Seen(text string) bool {
	return f.f.TestAndAddString(text)
}

// Test reports whether text might be in the filter without adding it.
func (f *Filter) Test(text string) bool {
	return f.f.TestString(text)
}

// EstimatedCount returns the approximate number of chunks in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
