package composable

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/tenk"
	"golang.org/x/sync/errgroup"
)

// DefaultContextTokens is the token budget for the text packed into one prompt.
const DefaultContextTokens = 3000

// Ensure Synthesizer implements tenk.Synthesizer at compile time.
var _ tenk.Synthesizer = (*Synthesizer)(nil)

// Synthesizer answers each routed partition with the leaf response mode and
// combines the per-year answers with the root response mode.
//
// The default mode packs fragments into prompts within the token budget,
// answers the first pack and refines the answer with each following pack.
// The tree_summarize mode summarizes packs and recursively summarizes the
// summaries until one answer remains.
type Synthesizer struct {
	Generator tenk.Generator

	// Tokens counts prompt tokens. Defaults to an estimate of four
	// characters per token.
	Tokens        tenk.TokenCounter
	ContextTokens int

	// Concurrency bounds the partitions answered at once.
	Concurrency int
}

// NewSynthesizer returns a Synthesizer using generator.
func NewSynthesizer(generator tenk.Generator) *Synthesizer {
	return &Synthesizer{Generator: generator, ContextTokens: DefaultContextTokens, Concurrency: 4}
}

// Synthesize answers query from partitions. Returns ENOTFOUND when the
// partitions carry no fragments.
func (s *Synthesizer) Synthesize(ctx context.Context, cred tenk.Credential, query string, partitions []*tenk.Partition, configs tenk.QueryConfigs) (*tenk.SynthesizedAnswer, error) {
	if err := cred.Require(); err != nil {
		return nil, err
	}

	var sources []*tenk.TextResult
	var nonEmpty []*tenk.Partition
	for _, p := range partitions {
		if len(p.Results) == 0 {
			continue
		}
		nonEmpty = append(nonEmpty, p)
		sources = append(sources, p.Results...)
	}
	if len(nonEmpty) == 0 {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no relevant filing text found")
	}

	leaf := configs.For(tenk.IndexStructDict).ResponseMode
	root := configs.For(tenk.IndexStructList).ResponseMode

	answers := make([]string, len(nonEmpty))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Concurrency))
	for i, p := range nonEmpty {
		g.Go(func() error {
			texts := make([]string, len(p.Results))
			for j, r := range p.Results {
				texts[j] = r.Record.Text
			}
			answer, err := s.respond(gctx, cred, leaf, query, texts)
			if err != nil {
				return err
			}
			answers[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(nonEmpty) == 1 {
		return &tenk.SynthesizedAnswer{Text: answers[0], Sources: sources}, nil
	}

	parts := make([]string, len(nonEmpty))
	for i, p := range nonEmpty {
		parts[i] = fmt.Sprintf("Fiscal year %d (%s): %s", int(p.Year), p.Summary, answers[i])
	}
	text, err := s.respond(ctx, cred, root, query, parts)
	if err != nil {
		return nil, err
	}
	return &tenk.SynthesizedAnswer{Text: text, Sources: sources}, nil
}

func (s *Synthesizer) respond(ctx context.Context, cred tenk.Credential, mode tenk.ResponseMode, query string, texts []string) (string, error) {
	switch mode {
	case tenk.ResponseModeTreeSummarize:
		return s.treeSummarize(ctx, cred, query, texts)
	default:
		return s.refine(ctx, cred, query, texts)
	}
}

// refine answers the first pack and refines with each following pack.
func (s *Synthesizer) refine(ctx context.Context, cred tenk.Credential, query string, texts []string) (string, error) {
	packs, err := s.pack(ctx, texts)
	if err != nil {
		return "", err
	}

	answer, err := s.Generator.Generate(ctx, cred, BuildQAPrompt(query, packs[0]))
	if err != nil {
		return "", err
	}
	for _, p := range packs[1:] {
		if answer, err = s.Generator.Generate(ctx, cred, BuildRefinePrompt(query, answer, p)); err != nil {
			return "", err
		}
	}
	return answer, nil
}

// treeSummarize summarizes packs level by level until one summary remains.
func (s *Synthesizer) treeSummarize(ctx context.Context, cred tenk.Credential, query string, texts []string) (string, error) {
	for {
		packs, err := s.pack(ctx, texts)
		if err != nil {
			return "", err
		}
		// Texts that each fill a whole prompt cannot be reduced further.
		if len(packs) > 1 && len(packs) == len(texts) {
			packs = [][]string{texts}
		}
		if len(packs) == 1 {
			return s.Generator.Generate(ctx, cred, BuildSummaryPrompt(query, packs[0]))
		}

		next := make([]string, len(packs))
		for i, p := range packs {
			if next[i], err = s.Generator.Generate(ctx, cred, BuildSummaryPrompt(query, p)); err != nil {
				return "", err
			}
		}
		texts = next
	}
}

// pack groups consecutive texts so that each group fits the token budget.
// A text larger than the budget forms a group of its own.
func (s *Synthesizer) pack(ctx context.Context, texts []string) ([][]string, error) {
	budget := s.ContextTokens
	if budget <= 0 {
		budget = DefaultContextTokens
	}

	var packs [][]string
	var cur []string
	used := 0
	for _, t := range texts {
		n, err := s.countTokens(ctx, t)
		if err != nil {
			return nil, err
		}
		if len(cur) > 0 && used+n > budget {
			packs = append(packs, cur)
			cur, used = nil, 0
		}
		cur = append(cur, t)
		used += n
	}
	if len(cur) > 0 {
		packs = append(packs, cur)
	}
	if len(packs) == 0 {
		packs = [][]string{{}}
	}
	return packs, nil
}

func (s *Synthesizer) countTokens(ctx context.Context, text string) (int, error) {
	if s.Tokens != nil {
		return s.Tokens.CountTokens(ctx, text)
	}
	return EstimateTokens(text), nil
}

// EstimateTokens approximates the token count of English text.
func EstimateTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
