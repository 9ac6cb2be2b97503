package search

import (
	"html"
	"slices"

	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText strips all markup from raw and decodes entities. Match spans
// returned by the search service index this text, not the raw markup.
func PlainText(raw string) string {
	return html.UnescapeString(strict.Sanitize(raw))
}

// Segment is a run of text that either lies inside a match span or not.
type Segment struct {
	Text  string
	Match bool
}

// Highlight slices text at the given character offsets. Spans are sorted,
// clamped to the text and merged where they overlap; matches are never
// recomputed.
func Highlight(text string, spans []contract.Span) []Segment {
	runes := []rune(text)
	merged := normalizeSpans(spans, len(runes))

	var out []Segment
	pos := 0
	for _, s := range merged {
		if s.Start > pos {
			out = append(out, Segment{Text: string(runes[pos:s.Start])})
		}
		out = append(out, Segment{Text: string(runes[s.Start:s.End]), Match: true})
		pos = s.End
	}
	if pos < len(runes) {
		out = append(out, Segment{Text: string(runes[pos:])})
	}
	return out
}

func normalizeSpans(spans []contract.Span, n int) []contract.Span {
	clamped := make([]contract.Span, 0, len(spans))
	for _, s := range spans {
		s.Start = min(max(s.Start, 0), n)
		s.End = min(max(s.End, 0), n)
		if s.End > s.Start {
			clamped = append(clamped, s)
		}
	}
	slices.SortFunc(clamped, func(a, b contract.Span) int { return a.Start - b.Start })

	var merged []contract.Span
	for _, s := range clamped {
		if last := len(merged) - 1; last >= 0 && s.Start <= merged[last].End {
			merged[last].End = max(merged[last].End, s.End)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
