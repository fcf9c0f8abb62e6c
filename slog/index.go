package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure LoggingIndexSetProvider implements tenk.IndexSetProvider.
var _ tenk.IndexSetProvider = (*LoggingIndexSetProvider)(nil)

// LoggingIndexSetProvider wraps an IndexSetProvider with debug logging.
type LoggingIndexSetProvider struct {
	next   tenk.IndexSetProvider
	logger *slog.Logger
}

// NewLoggingIndexSetProvider creates a new LoggingIndexSetProvider.
func NewLoggingIndexSetProvider(next tenk.IndexSetProvider, logger *slog.Logger) *LoggingIndexSetProvider {
	return &LoggingIndexSetProvider{next: next, logger: logger}
}

// IndexSet delegates to the wrapped provider and logs the lookup.
func (p *LoggingIndexSetProvider) IndexSet(ctx context.Context, cred tenk.Credential, dir string) (set *tenk.IndexSet, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("index set",
			"dir", dir,
			"credential", cred,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.IndexSet(ctx, cred, dir)
}
