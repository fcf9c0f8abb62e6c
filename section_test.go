package tenk_test

import (
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, tenk.ExtractSections(""))
	})

	t.Run("returns nil when there are no headings", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, tenk.ExtractSections("Revenue increased 57% year over year."))
	})

	t.Run("extracts markdown headings with levels", func(t *testing.T) {
		t.Parallel()

		md := "# Part I\n\ntext\n\n## Item 1. Business\n\nmore text"

		assert.Equal(t, []tenk.Section{
			{Level: 1, Title: "Part I"},
			{Level: 2, Title: "Item 1. Business"},
		}, tenk.ExtractSections(md))
	})

	t.Run("treats bold item lines as level two", func(t *testing.T) {
		t.Parallel()

		md := "**Item 1A. Risk Factors**\n\nOur business is subject to risks."

		assert.Equal(t, []tenk.Section{{Level: 2, Title: "Item 1A. Risk Factors"}}, tenk.ExtractSections(md))
	})

	t.Run("treats other bold lines as level three", func(t *testing.T) {
		t.Parallel()

		md := "**Risks Related to Our Business**\n\nWe have incurred losses."

		assert.Equal(t, []tenk.Section{{Level: 3, Title: "Risks Related to Our Business"}}, tenk.ExtractSections(md))
	})

	t.Run("keeps document order across heading styles", func(t *testing.T) {
		t.Parallel()

		md := "**Item 7. Management's Discussion**\n\ntext\n\n### Overview\n\ntext\n\n**Item 8. Financial Statements**"

		got := tenk.ExtractSections(md)

		titles := make([]string, len(got))
		for i, s := range got {
			titles[i] = s.Title
		}
		assert.Equal(t, []string{"Item 7. Management's Discussion", "Overview", "Item 8. Financial Statements"}, titles)
	})

	t.Run("ignores bold text inside a paragraph", func(t *testing.T) {
		t.Parallel()

		md := "We acquired **Postmates** in December 2020."

		assert.Nil(t, tenk.ExtractSections(md))
	})
}

func TestSplitSections(t *testing.T) {
	t.Parallel()

	t.Run("cuts text at headings", func(t *testing.T) {
		t.Parallel()

		md := "Cover page\n\n## Item 1. Business\n\nWe are Uber.\n\n**Item 1A. Risk Factors**\n\nWe have losses."

		blocks := tenk.SplitSections(md)

		require.Len(t, blocks, 3)
		assert.Equal(t, tenk.Section{}, blocks[0].Section)
		assert.Equal(t, "Cover page", blocks[0].Text)
		assert.Equal(t, "Item 1. Business", blocks[1].Section.Title)
		assert.Equal(t, "## Item 1. Business\n\nWe are Uber.", blocks[1].Text)
		assert.Equal(t, 2, blocks[2].Section.Level)
		assert.Contains(t, blocks[2].Text, "We have losses.")
	})

	t.Run("drops blank blocks", func(t *testing.T) {
		t.Parallel()

		blocks := tenk.SplitSections("## Part I\n\n## Item 1. Business\n\nText")

		require.Len(t, blocks, 2)
		assert.Equal(t, "## Part I", blocks[0].Text)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, tenk.SplitSections(""))
	})
}
