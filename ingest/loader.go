package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/bloom"
	"github.com/google/uuid"
)

// Ensure Loader implements tenk.FilingLoader at compile time.
var _ tenk.FilingLoader = (*Loader)(nil)

// Loader reads {dir}/{ticker}/{ticker}_{year}.html for every fiscal year.
type Loader struct {
	Parser tenk.FilingParser

	// YearReader, if set, checks that each file declares the year its name
	// claims. A mismatch is logged, not fatal.
	YearReader tenk.FiscalYearReader

	Ticker string
	Logger *slog.Logger

	// NewID generates record identifiers. Defaults to random UUIDs.
	NewID func() string
}

// LoadFilings loads every configured year. Any missing or unparseable file
// fails the whole load.
func (l *Loader) LoadFilings(ctx context.Context, dir string) (map[tenk.Year][]*tenk.FilingRecord, error) {
	out := make(map[tenk.Year][]*tenk.FilingRecord, len(tenk.FiscalYears()))
	for _, year := range tenk.FiscalYears() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := l.loadYear(dir, year)
		if err != nil {
			return nil, err
		}
		out[year] = records
	}
	return out, nil
}

func (l *Loader) loadYear(dir string, year tenk.Year) ([]*tenk.FilingRecord, error) {
	path := tenk.FilingPath(dir, l.Ticker, year)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "filing for %d not found at %s", int(year), path)
	} else if err != nil {
		return nil, tenk.Errorf(tenk.EINTERNAL, "read filing %s: %v", path, err)
	}
	html := string(data)

	if l.YearReader != nil {
		if declared, ok := l.YearReader.ReadFiscalYear(html); ok && declared != year {
			l.logger().Warn("filing declares a different fiscal year",
				"path", path, "expected", int(year), "declared", int(declared))
		}
	}

	parsed, err := l.Parser.Parse(html)
	if err != nil {
		return nil, tenk.Errorf(tenk.ErrorCode(err), "parse filing %s: %s", path, tenk.ErrorMessage(err))
	}

	// The filter answers most lookups; its positives are confirmed against
	// exact hashes so distinct text is never dropped.
	maybeSeen := bloom.NewFilter(uint(len(parsed)), 0.001)
	seen := make(map[uint64]struct{}, len(parsed))
	records := make([]*tenk.FilingRecord, 0, len(parsed))
	skipped := 0
	for _, p := range parsed {
		h := xxhash.Sum64String(p.Text)
		if maybeSeen.Seen(p.Text) {
			if _, ok := seen[h]; ok {
				skipped++
				continue
			}
		}
		seen[h] = struct{}{}
		records = append(records, &tenk.FilingRecord{
			ID:       l.newID(),
			Year:     year,
			Text:     p.Text,
			Source:   path,
			Section:  p.Section,
			Position: len(records),
		})
	}
	if skipped > 0 {
		l.logger().Debug("skipped repeated filing text", "path", path, "skipped", skipped)
	}
	return records, nil
}

func (l *Loader) newID() string {
	if l.NewID != nil {
		return l.NewID()
	}
	return uuid.NewString()
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.DiscardHandler)
}
