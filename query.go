package tenk

import (
	"context"
	"strings"
)

// DefaultTopK is the number of fragments a per-year query returns by default.
const DefaultTopK = 3

// IndexStructType names the structure a QueryConfig applies to.
type IndexStructType string

// Index structure types. Per-year indexes are dict-structured; the root of a
// composable graph is list-structured.
const (
	IndexStructDict IndexStructType = "dict"
	IndexStructList IndexStructType = "list"
)

// ResponseMode selects how retrieved text is turned into an answer.
type ResponseMode string

// Response modes.
const (
	ResponseModeDefault       ResponseMode = "default"
	ResponseModeTreeSummarize ResponseMode = "tree_summarize"
)

// QueryConfig describes how a query executes against one index structure.
type QueryConfig struct {
	IndexStructType IndexStructType `json:"indexStructType" yaml:"index_struct_type"`
	ResponseMode    ResponseMode    `json:"responseMode" yaml:"response_mode"`
	SimilarityTopK  int             `json:"similarityTopK,omitempty" yaml:"similarity_top_k"`
}

// Validate returns an error if the config contains invalid fields.
func (c QueryConfig) Validate() error {
	switch c.IndexStructType {
	case IndexStructDict, IndexStructList:
	default:
		return Errorf(EINVALID, "unknown index struct type %q", c.IndexStructType)
	}
	switch c.ResponseMode {
	case ResponseModeDefault, ResponseModeTreeSummarize:
	default:
		return Errorf(EINVALID, "unknown response mode %q", c.ResponseMode)
	}
	if c.SimilarityTopK < 0 {
		return Errorf(EINVALID, "similarity top k must not be negative")
	}
	return nil
}

// TopK returns SimilarityTopK, or fallback when it is unset.
func (c QueryConfig) TopK(fallback int) int {
	if c.SimilarityTopK > 0 {
		return c.SimilarityTopK
	}
	return fallback
}

// QueryConfigs is the set of configs passed to a composable graph query.
type QueryConfigs []QueryConfig

// DefaultGraphQueryConfigs returns the configs used for cross-year queries:
// the best single fragment per year, then a tree summary across years.
func DefaultGraphQueryConfigs() QueryConfigs {
	return QueryConfigs{
		{IndexStructType: IndexStructDict, ResponseMode: ResponseModeDefault, SimilarityTopK: 1},
		{IndexStructType: IndexStructList, ResponseMode: ResponseModeTreeSummarize},
	}
}

// Validate validates every config and rejects duplicate struct types.
func (cs QueryConfigs) Validate() error {
	seen := make(map[IndexStructType]bool, len(cs))
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.IndexStructType] {
			return Errorf(EINVALID, "duplicate query config for %q", c.IndexStructType)
		}
		seen[c.IndexStructType] = true
	}
	return nil
}

// For returns the config for structType, or a default-mode config if none is set.
func (cs QueryConfigs) For(structType IndexStructType) QueryConfig {
	for _, c := range cs {
		if c.IndexStructType == structType {
			return c
		}
	}
	return QueryConfig{IndexStructType: structType, ResponseMode: ResponseModeDefault}
}

// QueryType is a canned question offered by the shells.
type QueryType string

// Query types.
const (
	QueryTypeRiskFactors  QueryType = "Risk Factors"
	QueryTypeAcquisitions QueryType = "Significant Acquisitions"
)

// QueryTypes lists the canned questions in display order.
func QueryTypes() []QueryType {
	return []QueryType{QueryTypeRiskFactors, QueryTypeAcquisitions}
}

// Question returns the natural-language question for the query type.
func (t QueryType) Question() (string, error) {
	switch t {
	case QueryTypeRiskFactors:
		return "What are some of the biggest risk factors in each year?", nil
	case QueryTypeAcquisitions:
		return "What were some of the significant acquisitions?", nil
	}
	return "", Errorf(EINVALID, "unknown query type %q", string(t))
}

// RiskSummaryQuestion is the cross-year question used by the composable query.
const RiskSummaryQuestion = "Describe the current risk factors. If the year is provided in the information, " +
	"provide that as well. If the context contains risk factors for multiple years, " +
	"explicitly provide the following:\n" +
	"- A description of the risk factors for each year\n" +
	"- A summary of how these risk factors are changing across years"

// QueryService answers queries against the filings in a data directory.
type QueryService interface {
	// QueryYear returns at most k fragments of one year, most relevant first.
	QueryYear(ctx context.Context, cred Credential, dir string, year Year, query string, k int) ([]*TextResult, error)

	// QueryAllYears runs QueryYear independently for every fiscal year.
	QueryAllYears(ctx context.Context, cred Credential, dir string, query string, k int) (map[Year][]*TextResult, error)

	// QueryGraph returns one answer synthesized across all fiscal years.
	QueryGraph(ctx context.Context, cred Credential, dir string, query string) (*SynthesizedAnswer, error)

	// AnswerYear returns an answer synthesized from one year's fragments.
	AnswerYear(ctx context.Context, cred Credential, dir string, year Year, query string, k int) (*SynthesizedAnswer, error)
}

// ResolveQuery returns the question to run: text when it is not blank,
// otherwise the canned question of queryType.
func ResolveQuery(text string, queryType QueryType) (string, error) {
	if text = strings.TrimSpace(text); text != "" {
		return text, nil
	}
	if queryType == "" {
		return "", Errorf(EINVALID, "query or query type required")
	}
	return queryType.Question()
}
