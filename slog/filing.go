package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure LoggingFilingLoader implements tenk.FilingLoader.
var _ tenk.FilingLoader = (*LoggingFilingLoader)(nil)

// LoggingFilingLoader wraps a FilingLoader with debug logging.
type LoggingFilingLoader struct {
	next   tenk.FilingLoader
	logger *slog.Logger
}

// NewLoggingFilingLoader creates a new LoggingFilingLoader.
func NewLoggingFilingLoader(next tenk.FilingLoader, logger *slog.Logger) *LoggingFilingLoader {
	return &LoggingFilingLoader{next: next, logger: logger}
}

// LoadFilings delegates to the wrapped loader and logs the record count.
func (l *LoggingFilingLoader) LoadFilings(ctx context.Context, dir string) (records map[tenk.Year][]*tenk.FilingRecord, err error) {
	defer func(begin time.Time) {
		n := 0
		for _, rs := range records {
			n += len(rs)
		}
		l.logger.Info("load filings",
			"dir", dir,
			"years", len(records),
			"records", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LoadFilings(ctx, dir)
}
