package composable_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/tenk/composable"
	"github.com/stretchr/testify/assert"
)

func TestBuildQAPrompt(t *testing.T) {
	t.Parallel()

	prompt := composable.BuildQAPrompt("What are the risks?", []string{"Regulatory risk.", "Competition."})

	assert.Contains(t, prompt, "<context>")
	assert.Contains(t, prompt, "<index>1</index>\n<content>Regulatory risk.</content>")
	assert.Contains(t, prompt, "<index>2</index>\n<content>Competition.</content>")
	assert.Contains(t, prompt, "Question: What are the risks?")
	assert.Less(t, strings.Index(prompt, "</context>"), strings.Index(prompt, "Question:"))
}

func TestBuildRefinePrompt(t *testing.T) {
	t.Parallel()

	prompt := composable.BuildRefinePrompt("What are the risks?", "Regulation.", []string{"Insurance costs."})

	assert.Contains(t, prompt, "<existing_answer>\nRegulation.\n</existing_answer>")
	assert.Contains(t, prompt, "<content>Insurance costs.</content>")
	assert.Contains(t, prompt, "return the existing answer unchanged")
}

func TestBuildSummaryPrompt(t *testing.T) {
	t.Parallel()

	prompt := composable.BuildSummaryPrompt("How did risks change?", []string{"2019: drivers", "2020: pandemic"})

	assert.Contains(t, prompt, "<summaries>")
	assert.Contains(t, prompt, "<content>2019: drivers</content>")
	assert.Contains(t, prompt, "<content>2020: pandemic</content>")
	assert.Contains(t, prompt, "Question: How did risks change?")
}
