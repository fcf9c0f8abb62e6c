package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var _ tenk.QueryService = (*QueryService)(nil)

// QueryService is a mock implementation of tenk.QueryService.
type QueryService struct {
	QueryYearFn     func(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) ([]*tenk.TextResult, error)
	QueryAllYearsFn func(ctx context.Context, cred tenk.Credential, dir string, query string, k int) (map[tenk.Year][]*tenk.TextResult, error)
	QueryGraphFn    func(ctx context.Context, cred tenk.Credential, dir string, query string) (*tenk.SynthesizedAnswer, error)
	AnswerYearFn    func(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) (*tenk.SynthesizedAnswer, error)
}

func (s *QueryService) QueryYear(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) ([]*tenk.TextResult, error) {
	return s.QueryYearFn(ctx, cred, dir, year, query, k)
}

func (s *QueryService) QueryAllYears(ctx context.Context, cred tenk.Credential, dir string, query string, k int) (map[tenk.Year][]*tenk.TextResult, error) {
	return s.QueryAllYearsFn(ctx, cred, dir, query, k)
}

func (s *QueryService) QueryGraph(ctx context.Context, cred tenk.Credential, dir string, query string) (*tenk.SynthesizedAnswer, error) {
	return s.QueryGraphFn(ctx, cred, dir, query)
}

func (s *QueryService) AnswerYear(ctx context.Context, cred tenk.Credential, dir string, year tenk.Year, query string, k int) (*tenk.SynthesizedAnswer, error) {
	return s.AnswerYearFn(ctx, cred, dir, year, query, k)
}
