// Package tenk answers natural-language questions over a company's annual
// 10-K filings. It parses one filing per fiscal year into records, builds a
// retrievable index per year, and either returns the best matching passages
// or synthesizes a cross-year answer with an external language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., hnsw/, bleve/, openai/, sqlite/).
package tenk
