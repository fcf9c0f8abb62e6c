package composable_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/composable"
	"github.com/fwojciec/tenk/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCred = tenk.Credential{APIKey: "sk-test"}

// recordingGenerator returns answer(prompt) and records every prompt.
type recordingGenerator struct {
	mu      sync.Mutex
	prompts []string
	answer  func(prompt string) string
}

func (g *recordingGenerator) mock() *mock.Generator {
	return &mock.Generator{
		GenerateFn: func(_ context.Context, _ tenk.Credential, prompt string) (string, error) {
			g.mu.Lock()
			g.prompts = append(g.prompts, prompt)
			g.mu.Unlock()
			return g.answer(prompt), nil
		},
	}
}

func (g *recordingGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func partition(year tenk.Year, texts ...string) *tenk.Partition {
	p := &tenk.Partition{Year: year, Summary: tenk.SummaryText("UBER", year)}
	for i, text := range texts {
		p.Results = append(p.Results, &tenk.TextResult{
			Record: &tenk.FilingRecord{ID: text, Year: year, Text: text, Position: i},
			Score:  1 - float32(i)/10,
		})
	}
	return p
}

func TestSynthesizer_Synthesize(t *testing.T) {
	t.Parallel()

	t.Run("requires credential", func(t *testing.T) {
		t.Parallel()

		s := composable.NewSynthesizer(&mock.Generator{})

		_, err := s.Synthesize(context.Background(), tenk.Credential{}, "q", []*tenk.Partition{partition(2019, "a")}, nil)

		assert.Equal(t, tenk.EUNAUTHORIZED, tenk.ErrorCode(err))
	})

	t.Run("returns not found without fragments", func(t *testing.T) {
		t.Parallel()

		s := composable.NewSynthesizer(&mock.Generator{})

		_, err := s.Synthesize(context.Background(), testCred, "q", []*tenk.Partition{partition(2019), partition(2020)}, nil)

		assert.Equal(t, tenk.ENOTFOUND, tenk.ErrorCode(err))
	})

	t.Run("answers a single partition directly", func(t *testing.T) {
		t.Parallel()

		gen := &recordingGenerator{answer: func(string) string { return "Regulation is the main risk." }}
		s := composable.NewSynthesizer(gen.mock())

		got, err := s.Synthesize(context.Background(), testCred, "What are the risks?", []*tenk.Partition{partition(2021, "Regulatory risk.", "Competition.")}, nil)

		require.NoError(t, err)
		assert.Equal(t, "Regulation is the main risk.", got.Text)
		require.Len(t, got.Sources, 2)
		assert.Equal(t, "Regulatory risk.", got.Sources[0].Record.Text)

		prompts := gen.calls()
		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], "<content>Regulatory risk.</content>")
		assert.Contains(t, prompts[0], "<content>Competition.</content>")
	})

	t.Run("combines partitions with the root mode", func(t *testing.T) {
		t.Parallel()

		gen := &recordingGenerator{answer: func(prompt string) string {
			if strings.Contains(prompt, "<summaries>") {
				return "Risks shifted from growth to profitability."
			}
			if strings.Contains(prompt, "Pandemic") {
				return "pandemic"
			}
			return "drivers"
		}}
		s := composable.NewSynthesizer(gen.mock())
		partitions := []*tenk.Partition{
			partition(2019, "Driver classification."),
			partition(2020),
			partition(2021, "Pandemic effects."),
		}

		got, err := s.Synthesize(context.Background(), testCred, "How did risks change?", partitions, tenk.DefaultGraphQueryConfigs())

		require.NoError(t, err)
		assert.Equal(t, "Risks shifted from growth to profitability.", got.Text)
		assert.Len(t, got.Sources, 2)

		prompts := gen.calls()
		require.Len(t, prompts, 3)
		final := prompts[2]
		assert.Contains(t, final, "Fiscal year 2019 (UBER 10-k Filing for 2019 fiscal year): drivers")
		assert.Contains(t, final, "Fiscal year 2021 (UBER 10-k Filing for 2021 fiscal year): pandemic")
		assert.NotContains(t, final, "Fiscal year 2020")
	})

	t.Run("refines across packs", func(t *testing.T) {
		t.Parallel()

		n := 0
		gen := &recordingGenerator{answer: func(string) string {
			n++
			if n == 1 {
				return "first"
			}
			return "refined"
		}}
		s := composable.NewSynthesizer(gen.mock())
		s.ContextTokens = 5

		got, err := s.Synthesize(context.Background(), testCred, "q", []*tenk.Partition{partition(2019, strings.Repeat("a", 16), strings.Repeat("b", 16))}, nil)

		require.NoError(t, err)
		assert.Equal(t, "refined", got.Text)
		prompts := gen.calls()
		require.Len(t, prompts, 2)
		assert.NotContains(t, prompts[0], "<existing_answer>")
		assert.Contains(t, prompts[1], "<existing_answer>\nfirst\n</existing_answer>")
		assert.Contains(t, prompts[1], strings.Repeat("b", 16))
	})

	t.Run("tree summarizes level by level", func(t *testing.T) {
		t.Parallel()

		gen := &recordingGenerator{answer: func(string) string { return "s" }}
		s := composable.NewSynthesizer(gen.mock())
		s.ContextTokens = 8
		configs := tenk.QueryConfigs{{IndexStructType: tenk.IndexStructDict, ResponseMode: tenk.ResponseModeTreeSummarize}}

		got, err := s.Synthesize(context.Background(), testCred, "q",
			[]*tenk.Partition{partition(2019, strings.Repeat("a", 16), strings.Repeat("b", 16), strings.Repeat("c", 16))}, configs)

		require.NoError(t, err)
		assert.Equal(t, "s", got.Text)
		prompts := gen.calls()
		require.Len(t, prompts, 3)
		assert.Contains(t, prompts[0], strings.Repeat("a", 16))
		assert.Contains(t, prompts[0], strings.Repeat("b", 16))
		assert.Contains(t, prompts[1], strings.Repeat("c", 16))
		assert.Contains(t, prompts[2], "<content>s</content>")
	})

	t.Run("tree summarize forces one pack when texts cannot be reduced", func(t *testing.T) {
		t.Parallel()

		gen := &recordingGenerator{answer: func(string) string { return "s" }}
		s := composable.NewSynthesizer(gen.mock())
		s.ContextTokens = 3
		configs := tenk.QueryConfigs{{IndexStructType: tenk.IndexStructDict, ResponseMode: tenk.ResponseModeTreeSummarize}}

		_, err := s.Synthesize(context.Background(), testCred, "q",
			[]*tenk.Partition{partition(2019, strings.Repeat("a", 16), strings.Repeat("b", 16))}, configs)

		require.NoError(t, err)
		assert.Len(t, gen.calls(), 1)
	})

	t.Run("uses token counter", func(t *testing.T) {
		t.Parallel()

		gen := &recordingGenerator{answer: func(string) string { return "ok" }}
		s := composable.NewSynthesizer(gen.mock())
		s.ContextTokens = 10
		s.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 10, nil },
		}

		_, err := s.Synthesize(context.Background(), testCred, "q", []*tenk.Partition{partition(2019, "a", "b")}, nil)

		require.NoError(t, err)
		assert.Len(t, gen.calls(), 2)
	})

	t.Run("propagates token counter error", func(t *testing.T) {
		t.Parallel()

		s := composable.NewSynthesizer(&mock.Generator{})
		s.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 0, errors.New("count failed") },
		}

		_, err := s.Synthesize(context.Background(), testCred, "q", []*tenk.Partition{partition(2019, "a")}, nil)

		assert.EqualError(t, err, "count failed")
	})

	t.Run("propagates generator error", func(t *testing.T) {
		t.Parallel()

		s := composable.NewSynthesizer(&mock.Generator{
			GenerateFn: func(context.Context, tenk.Credential, string) (string, error) {
				return "", tenk.Errorf(tenk.EUNAUTHORIZED, "invalid API key")
			},
		})

		_, err := s.Synthesize(context.Background(), testCred, "q", []*tenk.Partition{partition(2019, "a"), partition(2020, "b")}, nil)

		assert.Equal(t, tenk.EUNAUTHORIZED, tenk.ErrorCode(err))
	})
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, composable.EstimateTokens("   "))
	assert.Equal(t, 1, composable.EstimateTokens("a"))
	assert.Equal(t, 4, composable.EstimateTokens(strings.Repeat("x", 16)))
	assert.Equal(t, 5, composable.EstimateTokens(strings.Repeat("x", 17)))
}
