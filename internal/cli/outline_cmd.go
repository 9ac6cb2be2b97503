package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/llm"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/spf13/cobra"
)

var errAssistDisabled = errors.New("LLM assistance is disabled (set enabled = true under [llm])")

func newOutlineCmd(app *App, ref func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Compose the interview outline",
		Long: `Compose the interview outline. BLOCK arguments accept a full id, a
unique id prefix, or a 1-based position such as #1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, ref())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOutline(sess.Document().Outline))
			return nil
		},
	}

	cmd.AddCommand(
		newOutlineAddCmd(app, ref),
		newOutlineSetCmd(app, ref),
		newOutlineLevelCmd(app, ref),
		newOutlineDeleteCmd(app, ref),
		newOutlineMoveCmd(app, ref),
		newOutlineRefineCmd(app, ref),
	)

	return cmd
}

func newOutlineAddCmd(app *App, ref func() string) *cobra.Command {
	kind := newBlockKindFlag()

	cmd := &cobra.Command{
		Use:   "add [TEXT]",
		Short: "Append a heading or paragraph block",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				eff, err := s.Apply(workspace.AddOutlineBlockOp{Kind: domain.BlockKind(kind.String())})
				if err != nil {
					return "", err
				}
				if text != "" {
					if _, err := s.Apply(workspace.UpdateOutlineBlockTextOp{BlockID: eff.BlockID, Text: text}); err != nil {
						return "", err
					}
				}
				return fmt.Sprintf("Added %s block #%d (%s)", kind, len(s.Document().Outline),
					formatter.TruncID(eff.BlockID)), nil
			})
		},
	}

	cmd.Flags().Var(kind, "kind", "block kind")
	return cmd
}

func newOutlineSetCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "set BLOCK TEXT",
		Short: "Replace the text of a block",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				id, err := resolveBlock(s.Document(), args[0])
				if err != nil {
					return "", err
				}
				if _, err := s.Apply(workspace.UpdateOutlineBlockTextOp{BlockID: id, Text: text}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Updated block %s", formatter.TruncID(id)), nil
			})
		},
	}
}

func newOutlineLevelCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "level BLOCK N",
		Short: fmt.Sprintf("Set a heading level (%d-%d)", domain.MinHeadingLevel, domain.MaxHeadingLevel),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid heading level %q", args[1])
			}
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				id, err := resolveBlock(s.Document(), args[0])
				if err != nil {
					return "", err
				}
				if _, err := s.Apply(workspace.SetHeadingLevelOp{BlockID: id, Level: level}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Block %s is now a level %d heading", formatter.TruncID(id), level), nil
			})
		},
	}
}

func newOutlineDeleteCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:     "delete BLOCK",
		Aliases: []string{"rm"},
		Short:   "Delete an outline block",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				id, err := resolveBlock(s.Document(), args[0])
				if err != nil {
					return "", err
				}
				if _, err := s.Apply(workspace.DeleteOutlineBlockOp{BlockID: id}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Deleted block %s", formatter.TruncID(id)), nil
			})
		},
	}
}

func newOutlineMoveCmd(app *App, ref func() string) *cobra.Command {
	var up, down bool
	var by int

	cmd := &cobra.Command{
		Use:   "move BLOCK",
		Short: "Move an outline block up or down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := moveDelta(up, down, by)
			if err != nil {
				return err
			}
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				doc := s.Document()
				id, err := resolveBlock(doc, args[0])
				if err != nil {
					return "", err
				}
				order, _ := workspace.MoveOrder(blockIDs(doc), id, delta)
				if _, err := s.Apply(workspace.ReorderOutlineOp{Order: order}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Moved block %s to position %d", formatter.TruncID(id),
					s.Document().BlockIndex(id)+1), nil
			})
		},
	}

	registerMoveFlags(cmd.Flags(), &up, &down, &by)
	return cmd
}

func newOutlineRefineCmd(app *App, ref func() string) *cobra.Command {
	action := newActionFlag()
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "refine BLOCK",
		Short: "Rewrite a block's text with the local LLM",
		Long: `Rewrite the text of an outline block with the configured Ollama model.

improve polishes the wording, shorten halves the length and change-tone
makes the text conversational. The rewrite replaces the block text and is
saved; --dry-run only prints it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assist == nil {
				return errAssistDisabled
			}
			act, err := llm.ParseAction(action.String())
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Refining text...")
			}
			defer stop()

			if dryRun {
				sess, err := openSession(cmd, app, ref())
				if err != nil {
					return err
				}
				doc := sess.Document()
				id, err := resolveBlock(doc, args[0])
				if err != nil {
					return err
				}
				r, err := app.Assist.ProposeRefinement(cmd.Context(), doc, id, act)
				stop()
				if err != nil {
					return fmt.Errorf("refining block: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRefinement(r.Original, r.Refined))
				return nil
			}

			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				id, err := resolveBlock(s.Document(), args[0])
				if err != nil {
					return "", err
				}
				r, err := app.Assist.RefineBlock(cmd.Context(), s, id, act)
				stop()
				if err != nil {
					return "", fmt.Errorf("refining block: %w", err)
				}
				return fmt.Sprintf("%s\nRefined block %s (%s)",
					formatter.FormatRefinement(r.Original, r.Refined), formatter.TruncID(id), action), nil
			})
		},
	}

	cmd.Flags().Var(action, "action", "rewrite to apply")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rewrite without saving it")
	return cmd
}
