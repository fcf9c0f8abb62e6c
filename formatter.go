package tenk

import (
	"fmt"
	"strings"
)

// sourcePreviewLen is the number of characters shown per source.
const sourcePreviewLen = 100

// FormatResults formats retrieved fragments for display.
// Fragments are separated by blank lines.
func FormatResults(results []*TextResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Record.Text)
	}

	return strings.Join(parts, "\n\n")
}

// FormattedSources lists the answer's sources, one per paragraph, with a
// short preview of each fragment.
func (a *SynthesizedAnswer) FormattedSources() string {
	if len(a.Sources) == 0 {
		return ""
	}

	parts := make([]string, 0, len(a.Sources))
	for _, s := range a.Sources {
		parts = append(parts, fmt.Sprintf("> Source (Year: %d, Doc id: %s): %s",
			int(s.Record.Year), s.Record.ID, preview(s.Record.Text, sourcePreviewLen)))
	}

	return strings.Join(parts, "\n\n")
}

// preview truncates s to n runes, appending an ellipsis when truncated.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
