package composable

import (
	"fmt"
	"strings"
)

// BuildQAPrompt builds the prompt answering query from context fragments.
func BuildQAPrompt(query string, fragments []string) string {
	var sb strings.Builder
	writeContext(&sb, fragments)
	sb.WriteString("Using only the context above and no prior knowledge, answer the question.\n\n")
	fmt.Fprintf(&sb, "Question: %s", query)
	return sb.String()
}

// BuildRefinePrompt builds the prompt improving an existing answer with
// additional context fragments.
func BuildRefinePrompt(query, existing string, fragments []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\n", query)
	fmt.Fprintf(&sb, "<existing_answer>\n%s\n</existing_answer>\n\n", existing)
	writeContext(&sb, fragments)
	sb.WriteString("Refine the existing answer using the additional context. ")
	sb.WriteString("If the context is not useful, return the existing answer unchanged.")
	return sb.String()
}

// BuildSummaryPrompt builds the prompt combining partial answers into one.
func BuildSummaryPrompt(query string, parts []string) string {
	var sb strings.Builder
	sb.WriteString("<summaries>\n")
	for i, p := range parts {
		sb.WriteString("<summary>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<content>%s</content>\n", p)
		sb.WriteString("</summary>\n")
	}
	sb.WriteString("</summaries>\n\n")
	sb.WriteString("Combine the information above into a single answer to the question.\n\n")
	fmt.Fprintf(&sb, "Question: %s", query)
	return sb.String()
}

func writeContext(sb *strings.Builder, fragments []string) {
	sb.WriteString("<context>\n")
	for i, f := range fragments {
		sb.WriteString("<fragment>\n")
		fmt.Fprintf(sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(sb, "<content>%s</content>\n", f)
		sb.WriteString("</fragment>\n")
	}
	sb.WriteString("</context>\n\n")
}
