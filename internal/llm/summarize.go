package llm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Source is one numbered research result offered to the model.
type Source struct {
	Title   string
	Snippet string
	URL     string
}

// Citation is a source the summary refers to by its 1-based number.
type Citation struct {
	Number int
	Source Source
}

// Summary is a short synthesis of research results with numbered citations.
type Summary struct {
	Text      string
	Citations []Citation
}

// ErrNoSources is returned when there is nothing to summarize.
var ErrNoSources = errors.New("no results to summarize")

// maxSnippet bounds how much of each source reaches the prompt.
const maxSnippet = 600

const summarySystem = `You help a podcast host prepare for an interview.
Summarize the numbered research sources for the host's query in 2 to 4 short
paragraphs. Cite sources inline as [n] using their numbers. Only state what
the sources support.
Reply with one JSON object and nothing else:
{"summary": "<text with [n] citations>", "citations": [<numbers you cited>]}`

type summaryOutput struct {
	Summary   string `json:"summary"`
	Citations []int  `json:"citations"`
}

// SummaryPrompts builds the prompts for query over sources. background is
// the interview's context and may be empty.
func SummaryPrompts(query, background string, sources []Source) (system, user string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", query)
	if strings.TrimSpace(background) != "" {
		fmt.Fprintf(&b, "\nInterview context:\n%s\n", strings.TrimSpace(background))
	}
	b.WriteString("\nSources:\n")
	for i, src := range sources {
		snippet := src.Snippet
		if r := []rune(snippet); len(r) > maxSnippet {
			snippet = string(r[:maxSnippet]) + "..."
		}
		fmt.Fprintf(&b, "[%d] %s\n", i+1, src.Title)
		if src.URL != "" {
			fmt.Fprintf(&b, "    %s\n", src.URL)
		}
		if snippet != "" {
			fmt.Fprintf(&b, "    %s\n", snippet)
		}
	}
	return summarySystem, b.String()
}

// Summarize asks the model for a cited summary of sources. Citation numbers
// outside 1..len(sources) make the output invalid.
func Summarize(ctx context.Context, client Client, query, background string, sources []Source) (*Summary, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	system, user := SummaryPrompts(query, background, sources)
	resp, err := client.Generate(ctx, GenerateRequest{
		Task:         TaskSummarize,
		SystemPrompt: system,
		UserPrompt:   user,
	})
	if err != nil {
		return nil, err
	}

	out, err := ExtractJSON(resp.Text, func(o summaryOutput) error {
		if strings.TrimSpace(o.Summary) == "" {
			return errors.New("summary is empty")
		}
		for _, n := range o.Citations {
			if n < 1 || n > len(sources) {
				return fmt.Errorf("citation [%d] does not match a source", n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	nums := slices.Clone(out.Citations)
	slices.Sort(nums)
	nums = slices.Compact(nums)

	summary := &Summary{Text: strings.TrimSpace(out.Summary)}
	for _, n := range nums {
		summary.Citations = append(summary.Citations, Citation{Number: n, Source: sources[n-1]})
	}
	return summary, nil
}
