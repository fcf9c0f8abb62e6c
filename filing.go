package tenk

import (
	"context"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// FilingRecord is one parsed unit of filing text for a fiscal year.
// Records are created by a FilingLoader and are not modified afterwards.
type FilingRecord struct {
	ID       string `json:"id"`
	Year     Year   `json:"year"`
	Text     string `json:"text"`
	Source   string `json:"source,omitempty"`
	Section  string `json:"section,omitempty"`
	Position int    `json:"position"`
}

// Validate returns an error if the record contains invalid fields.
func (r *FilingRecord) Validate() error {
	if err := r.Year.Validate(); err != nil {
		return err
	}
	if r.Text == "" {
		return Errorf(EINVALID, "filing record text required")
	}
	return nil
}

// FilingLoader reads one filing per configured fiscal year from a data directory.
type FilingLoader interface {
	// LoadFilings returns the records of every configured year, keyed by year.
	// The load is all-or-nothing: if any year's filing is missing (ENOTFOUND)
	// or unreadable, no records are returned.
	LoadFilings(ctx context.Context, dir string) (map[Year][]*FilingRecord, error)
}

// FilingParser turns the raw HTML of a filing into record texts.
type FilingParser interface {
	Parse(html string) ([]*ParsedText, error)
}

// ParsedText is a piece of filing text with the heading it falls under.
type ParsedText struct {
	Text    string
	Section string
}

// Splitter splits converted filing text into retrieval-sized pieces.
type Splitter interface {
	Split(text string) ([]string, error)
}

// FiscalYearReader reads the fiscal year a filing declares about itself.
type FiscalYearReader interface {
	// ReadFiscalYear returns the declared year and true, or false when the
	// document carries no readable declaration.
	ReadFiscalYear(html string) (Year, bool)
}

// ContentHash returns a stable hash over the texts of records in order.
// It identifies the filing contents an index was built from.
func ContentHash(records []*FilingRecord) string {
	d := xxhash.New()
	for _, r := range records {
		_, _ = d.WriteString(r.Text)
		_, _ = d.Write([]byte{0})
	}
	return hex.EncodeToString(d.Sum(nil))
}
