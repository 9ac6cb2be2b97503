package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App, ref func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "List and manage saved workspaces",
	}

	cmd.AddCommand(
		newProjectListCmd(app, ref),
		newProjectRemoveCmd(app),
		newProjectReindexCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved workspaces, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projects, err := app.Projects.List(ctx)
			if err != nil {
				return err
			}
			current := ""
			if len(projects) > 0 {
				if id, err := resolveWorkspaceID(ctx, app, ref()); err == nil {
					current = id
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, current, app.now()))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a saved workspace and its index entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveWorkspaceID(ctx, app, args[0])
			if err != nil {
				return err
			}
			summary, err := app.Projects.Get(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("workspace not found: %q", args[0])
				}
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %s without --yes", summary.DisplayID())
				}
				var confirmed bool
				desc := fmt.Sprintf("%s, %s and the outline will be removed.",
					formatter.Plural(summary.NoteCount, "note"), formatter.Plural(summary.ItemCount, "item"))
				done, err := runForm(confirmForm(fmt.Sprintf("Delete %q?", summary.Title), desc, &confirmed))
				if err != nil {
					return err
				}
				if !done || !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept workspace.")
					return nil
				}
			}

			if err := app.Workspaces.Delete(ctx, id); err != nil {
				return fmt.Errorf("deleting workspace: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workspace %s (%s)\n",
				formatter.Bold(summary.Title), formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newProjectReindexCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the workspace index from stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Projects.Reindex(cmd.Context())
			if err != nil {
				return fmt.Errorf("reindexing: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Indexed %s, removed %d orphaned index entries\n",
				formatter.Plural(res.Indexed, "workspace"), res.Removed)
			for _, id := range res.Corrupt {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleRed.Render("unreadable:"), id)
			}
			return nil
		},
	}
}
