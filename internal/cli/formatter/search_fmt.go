package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/alexanderramin/prepdesk/internal/search"
)

// FormatSearchResults renders ranked episodes in the order given, with
// matched spans highlighted.
func FormatSearchResults(query string, results []contract.SearchResult) string {
	if len(results) == 0 {
		return Dim(fmt.Sprintf("No episodes match %q.", query))
	}

	var b strings.Builder
	for i, r := range results {
		title := search.PlainText(r.Episode.Title)
		desc := search.PlainText(r.Episode.Description)
		var titleSpans, descSpans []contract.Span
		if r.Matches != nil {
			titleSpans, descSpans = r.Matches.Title, r.Matches.Description
		}

		b.WriteString(fmt.Sprintf("%s %s\n", StyleDim.Render(fmt.Sprintf("%2d.", i+1)), RenderHighlighted(title, titleSpans, StyleBold.Render)))
		meta := []string{}
		if !r.Episode.PublishDate.IsZero() {
			meta = append(meta, r.Episode.PublishDate.Format("Jan 2, 2006"))
		}
		if r.Episode.URL != "" {
			meta = append(meta, r.Episode.URL)
		}
		if len(meta) > 0 {
			b.WriteString("    " + Dim(strings.Join(meta, " · ")) + "\n")
		}
		if desc != "" {
			b.WriteString("    " + RenderHighlighted(desc, descSpans, StyleFg.Render) + "\n")
		}
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}
	return RenderBox(fmt.Sprintf("Episodes for %q", query), b.String())
}

// RenderHighlighted styles matched segments with StyleMatch and the rest
// with plain.
func RenderHighlighted(text string, spans []contract.Span, plain func(...string) string) string {
	var b strings.Builder
	for _, seg := range search.Highlight(text, spans) {
		if seg.Match {
			b.WriteString(StyleMatch.Render(seg.Text))
		} else {
			b.WriteString(plain(seg.Text))
		}
	}
	return b.String()
}
