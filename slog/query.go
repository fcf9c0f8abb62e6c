package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure LoggingQueryService implements tenk.QueryService.
var _ tenk.QueryService = (*LoggingQueryService)(nil)

// LoggingQueryService wraps a QueryService with logging of every query.
type LoggingQueryService struct {
	next   tenk.QueryService
	logger *slog.Logger
}

// NewLoggingQueryService creates a new LoggingQueryService.
func NewLoggingQueryService(next tenk.QueryService, logger *slog.Logger) *LoggingQueryService {
	return &LoggingQueryService{next: next, logger: logger}
}

// QueryYear delegates to the wrapped service and logs the query.
func (s *LoggingQueryService) QueryYear(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) (results []*tenk.TextResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("query year",
			"dir", dir,
			"year", int(year),
			"k", k,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.QueryYear(ctx, cred, dir, year, query, k)
}

// QueryAllYears delegates to the wrapped service and logs the query.
func (s *LoggingQueryService) QueryAllYears(ctx context.Context, cred tenk.Credential, dir string, query string, k int) (results map[tenk.Year][]*tenk.TextResult, err error) {
	defer func(begin time.Time) {
		n := 0
		for _, rs := range results {
			n += len(rs)
		}
		s.logger.Info("query all years",
			"dir", dir,
			"k", k,
			"results", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.QueryAllYears(ctx, cred, dir, query, k)
}

// QueryGraph delegates to the wrapped service and logs the query.
func (s *LoggingQueryService) QueryGraph(ctx context.Context, cred tenk.Credential, dir string, query string) (answer *tenk.SynthesizedAnswer, err error) {
	defer func(begin time.Time) {
		sources := 0
		if answer != nil {
			sources = len(answer.Sources)
		}
		s.logger.Info("query graph",
			"dir", dir,
			"sources", sources,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.QueryGraph(ctx, cred, dir, query)
}

// AnswerYear delegates to the wrapped service and logs the query.
func (s *LoggingQueryService) AnswerYear(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) (answer *tenk.SynthesizedAnswer, err error) {
	defer func(begin time.Time) {
		sources := 0
		if answer != nil {
			sources = len(answer.Sources)
		}
		s.logger.Info("answer year",
			"dir", dir,
			"year", int(year),
			"sources", sources,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AnswerYear(ctx, cred, dir, year, query, k)
}
