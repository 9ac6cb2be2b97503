package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/alexanderramin/prepdesk/internal/search"
	"github.com/spf13/cobra"
)

var errSearchDisabled = errors.New("episode search is not configured")

func newSearchCmd(app *App, ref func() string) *cobra.Command {
	var podcasts []int
	var titleWeight, descWeight, limit int
	var fromStdin, summarize bool

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search podcast episodes",
		Long: `Search podcast episodes and highlight the matching text.

With --stdin every input line is a new query. Queries are debounced and
only the results of the latest one are printed.

With --summarize the local LLM condenses the results into a short summary
with numbered citations, using the workspace context as background.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Search == nil {
				return errSearchDisabled
			}
			if summarize && app.Assist == nil {
				return errAssistDisabled
			}
			base := contract.NewSearchRequest("", podcasts...)
			base.TitleWeight = titleWeight
			base.DescriptionWeight = descWeight
			base.CapNMatches = limit

			if fromStdin {
				if len(args) > 0 {
					return fmt.Errorf("QUERY and --stdin are mutually exclusive")
				}
				if summarize {
					return fmt.Errorf("--summarize and --stdin are mutually exclusive")
				}
				return streamSearch(cmd, app, base)
			}

			req := base
			req.Query = strings.Join(args, " ")

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Searching episodes...")
			}
			results, err := app.Search.Search(cmd.Context(), req)
			stop()
			if err != nil {
				return fmt.Errorf("searching episodes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSearchResults(req.Query, results))
			if !summarize || len(results) == 0 {
				return nil
			}
			return summarizeResults(cmd, app, ref(), req.Query, results)
		},
	}

	cmd.Flags().IntSliceVar(&podcasts, "podcast", nil, "restrict to podcast id (repeatable)")
	cmd.Flags().IntVar(&titleWeight, "title-weight", contract.DefaultTitleWeight, "ranking weight of title matches")
	cmd.Flags().IntVar(&descWeight, "description-weight", contract.DefaultDescriptionWeight, "ranking weight of description matches")
	cmd.Flags().IntVar(&limit, "limit", contract.DefaultMatchCap, "maximum matches highlighted per field")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read one query per line from stdin")
	cmd.Flags().BoolVar(&summarize, "summarize", false, "summarize the results with the local LLM")
	return cmd
}

// summarizeResults prints an LLM summary of results. The workspace context
// is passed as background when a workspace exists.
func summarizeResults(cmd *cobra.Command, app *App, ref, query string, results []contract.SearchResult) error {
	var background string
	sess, err := openSession(cmd, app, ref)
	switch {
	case err == nil:
		background = sess.Document().BackgroundContext
	case !errors.Is(err, errNoWorkspaces):
		return err
	}

	stop := func() {}
	if app.interactive() {
		stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Summarizing results...")
	}
	summary, err := app.Assist.SummarizeResults(cmd.Context(), query, background, results)
	stop()
	if err != nil {
		return fmt.Errorf("summarizing results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(query, summary))
	return nil
}

// streamSearch feeds stdin lines through a search.Coordinator and waits for
// the outcome of the last query before returning.
func streamSearch(cmd *cobra.Command, app *App, base contract.SearchRequest) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var applied atomic.Uint64
	signal := make(chan struct{}, 1)
	coord := search.NewCoordinator(app.Search, app.SearchDebounce, func(o search.Outcome) {
		printOutcome(out, errOut, o)
		applied.Store(o.Seq)
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	defer coord.Close()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		req := base
		req.Query = strings.TrimSpace(scanner.Text())
		coord.Submit(ctx, req)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}

	latest := coord.Latest()
	for latest != 0 && applied.Load() != latest {
		select {
		case <-signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func printOutcome(out, errOut io.Writer, o search.Outcome) {
	if o.Err != nil {
		fmt.Fprintf(errOut, "Error: searching %q: %v\n", o.Request.Query, o.Err)
		return
	}
	fmt.Fprintln(out, formatter.FormatSearchResults(o.Request.Query, o.Results))
}
