package tenk

import (
	"regexp"
	"sort"
	"strings"
)

// Section is a heading found in converted filing text.
type Section struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

var (
	headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)\s*#*\s*$`)

	// Filings often mark headings with bold paragraphs instead of heading tags.
	boldHeadingRe = regexp.MustCompile(`(?m)^\*\*([^*\n]{3,120})\*\*\s*$`)

	itemRe = regexp.MustCompile(`(?i)^item\s+\d+[a-z]?\.?`)
)

// ExtractSections returns the headings of markdown in document order.
// Markdown headings keep their level; bold-only lines that name a 10-K item
// ("Item 1A. Risk Factors") are reported as level 2, other bold-only lines
// as level 3.
func ExtractSections(markdown string) []Section {
	found := findHeadings(markdown)
	if len(found) == 0 {
		return nil
	}
	sections := make([]Section, len(found))
	for i, f := range found {
		sections[i] = f.sec
	}
	return sections
}

// SectionBlock is the text that follows a heading up to the next heading.
// The block before the first heading has a zero Section.
type SectionBlock struct {
	Section Section
	Text    string
}

// SplitSections cuts markdown at every heading ExtractSections reports.
// Blocks whose text is blank are dropped; the heading line itself is kept
// at the start of its block.
func SplitSections(markdown string) []SectionBlock {
	found := findHeadings(markdown)

	var blocks []SectionBlock
	add := func(sec Section, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		blocks = append(blocks, SectionBlock{Section: sec, Text: strings.TrimSpace(text)})
	}

	prev := 0
	var cur Section
	for _, f := range found {
		add(cur, markdown[prev:f.pos])
		cur, prev = f.sec, f.pos
	}
	add(cur, markdown[prev:])
	return blocks
}

type heading struct {
	pos int
	sec Section
}

// findHeadings returns markdown and bold-line headings sorted by offset.
func findHeadings(markdown string) []heading {
	if markdown == "" {
		return nil
	}

	var all []heading
	for _, m := range headingRe.FindAllStringSubmatchIndex(markdown, -1) {
		title := cleanTitle(markdown[m[4]:m[5]])
		if title == "" {
			continue
		}
		all = append(all, heading{pos: m[0], sec: Section{Level: m[3] - m[2], Title: title}})
	}

	for _, m := range boldHeadingRe.FindAllStringSubmatchIndex(markdown, -1) {
		title := cleanTitle(markdown[m[2]:m[3]])
		if title == "" {
			continue
		}
		level := 3
		if itemRe.MatchString(title) {
			level = 2
		}
		all = append(all, heading{pos: m[0], sec: Section{Level: level, Title: title}})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].pos < all[j].pos })
	return all
}

// cleanTitle collapses whitespace and strips markdown emphasis.
func cleanTitle(s string) string {
	s = strings.NewReplacer("**", "", "__", "", "*", "", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
