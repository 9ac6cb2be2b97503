package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/llm"
)

// FormatRefinement shows a block's text before and after a rewrite.
func FormatRefinement(original, refined string) string {
	var b strings.Builder
	b.WriteString(Dim("Before:") + "\n")
	b.WriteString("  " + StyleDim.Render(original) + "\n")
	b.WriteString(Dim("After:") + "\n")
	b.WriteString("  " + StyleFg.Render(refined))
	return b.String()
}

// FormatSummary renders a research summary followed by its numbered sources.
func FormatSummary(query string, s *llm.Summary) string {
	var b strings.Builder
	b.WriteString(StyleFg.Render(s.Text) + "\n")
	if len(s.Citations) > 0 {
		b.WriteString("\n" + Bold("Sources") + "\n")
		for _, c := range s.Citations {
			line := fmt.Sprintf("%s %s", StyleDim.Render(fmt.Sprintf("[%d]", c.Number)), c.Source.Title)
			if c.Source.URL != "" {
				line += "  " + Dim(c.Source.URL)
			}
			b.WriteString(line + "\n")
		}
	}
	return RenderBox(fmt.Sprintf("Summary for %q", query), strings.TrimRight(b.String(), "\n"))
}
