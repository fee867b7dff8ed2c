package agents

import (
	"fmt"
	"strings"

	"verdict/internal/domain"
)

// prosConsPrompt asks the model for a structured pros/cons analysis of one
// candidate option.
func prosConsPrompt(position int, option domain.Option) string {
	return fmt.Sprintf(
		"Analyze the following option and provide pros and cons:\n"+
			"Option %d: %s\n"+
			"Please provide a structured analysis with clear pros and cons.",
		position, option.Document.Content)
}

// decisionPrompt asks the model to pick the best option given all analyses.
func decisionPrompt(analyses []domain.Analysis) string {
	var b strings.Builder
	for i, a := range analyses {
		fmt.Fprintf(&b, "\nOption %d: %s\n", i+1, a.Option.Document.Content)
		fmt.Fprintf(&b, "Analysis: %s\n", a.Text)
		b.WriteString(strings.Repeat("-", 50))
		b.WriteString("\n")
	}
	return fmt.Sprintf(
		"Based on the following analyses, recommend the best option and explain why:\n"+
			"%s\n"+
			"Please provide a clear recommendation with reasoning.",
		b.String())
}
