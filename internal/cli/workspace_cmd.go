package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new interview workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && app.interactive() {
				done, err := runForm(titleForm(&title))
				if err != nil {
					return err
				}
				if !done {
					return nil
				}
			}

			sess, err := app.Workspaces.Create(cmd.Context(), title)
			if err != nil {
				return fmt.Errorf("creating workspace: %w", err)
			}
			doc := sess.Document()
			fmt.Fprintf(cmd.OutOrStdout(), "Created workspace %s (%s)\n",
				formatter.Bold(doc.Title), formatter.TruncID(doc.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "interview title")
	return cmd
}

func newShowCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the workspace notes and outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, ref())
			if err != nil {
				return err
			}
			active, _ := sess.Selection().ID()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorkspace(formatter.WorkspaceView{
				Doc:    sess.Document(),
				Active: active,
				Dirty:  sess.Dirty(),
				Now:    app.now(),
			}))
			return nil
		},
	}
}

func newRenameCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename TITLE",
		Short: "Rename the workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				if _, err := s.Apply(workspace.RenameDocumentOp{Title: title}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Renamed workspace to %s", formatter.Bold(s.Document().Title)), nil
			})
		},
	}
}

func newContextCmd(app *App, ref func() string) *cobra.Command {
	var clearText bool

	cmd := &cobra.Command{
		Use:   "context [TEXT]",
		Short: "Set the background context for the interview",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" && !clearText {
				return fmt.Errorf("context text is required (use --clear to remove it)")
			}
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				if _, err := s.Apply(workspace.SetContextOp{Text: text}); err != nil {
					return "", err
				}
				if text == "" {
					return "Cleared background context", nil
				}
				return "Updated background context", nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearText, "clear", false, "remove the background context")
	return cmd
}

func newResetCmd(app *App, ref func() string) *cobra.Command {
	var clearPrevious bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the workspace with a blank document under a new id",
		Long: `Reset starts a blank document with a new id and saves it. The previous
workspace stays available under its old id unless --clear is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, ref())
			if err != nil {
				return err
			}
			prev := sess.ID()

			next, err := app.Workspaces.Reset(cmd.Context(), sess, clearPrevious)
			if err != nil {
				return fmt.Errorf("resetting workspace: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Started blank workspace %s\n", formatter.TruncID(next.ID()))
			if clearPrevious {
				fmt.Fprintf(out, "Deleted previous workspace %s\n", formatter.TruncID(prev))
			} else {
				fmt.Fprintf(out, "%s\n", formatter.Dim("Previous workspace kept as "+formatter.TruncIDPlain(prev)))
			}
			if app.DefaultWorkspace != "" {
				fmt.Fprintf(out, "%s\n", formatter.Dim("Use -w "+formatter.TruncIDPlain(next.ID())+" to open it; the configured workspace still points at the old id."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearPrevious, "clear", false, "delete the previous workspace")
	return cmd
}
