package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/spf13/cobra"
)

func newNoteCmd(app *App, ref func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage research notes",
		Long: `Manage research notes. NOTE arguments accept a full id, a unique id
prefix, or a 1-based position such as #2.`,
	}

	cmd.AddCommand(
		newNoteAddCmd(app, ref),
		newNoteRenameCmd(app, ref),
		newNoteDeleteCmd(app, ref),
		newNoteReorderCmd(app, ref),
		newNoteMoveCmd(app, ref),
		newNoteSelectCmd(app, ref),
	)

	return cmd
}

func newNoteAddCmd(app *App, ref func() string) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				eff, err := s.Apply(workspace.AddNoteOp{Title: title})
				if err != nil {
					return "", err
				}
				doc := s.Document()
				note := doc.Notes[doc.NoteIndex(eff.NoteID)]
				return fmt.Sprintf("Added note #%d %s (%s)", len(doc.Notes),
					formatter.Bold(note.Title), formatter.TruncID(note.ID)), nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	return cmd
}

func newNoteRenameCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename NOTE TITLE",
		Short: "Rename a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				id, err := resolveNote(s.Document(), args[0])
				if err != nil {
					return "", err
				}
				if _, err := s.Apply(workspace.RenameNoteOp{NoteID: id, Title: title}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Renamed note %s", formatter.TruncID(id)), nil
			})
		},
	}
}

func newNoteDeleteCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NOTE",
		Aliases: []string{"rm"},
		Short:   "Delete a note and its items",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				doc := s.Document()
				id, err := resolveNote(doc, args[0])
				if err != nil {
					return "", err
				}
				note := doc.Notes[doc.NoteIndex(id)]
				if _, err := s.Apply(workspace.DeleteNoteOp{NoteID: id}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Deleted note %s (%s)", formatter.Bold(note.Title),
					formatter.Plural(len(note.Items), "item")), nil
			})
		},
	}
}

func newNoteReorderCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder NOTE...",
		Short: "Set the full note order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				doc := s.Document()
				order := make([]string, len(args))
				for i, a := range args {
					id, err := resolveNote(doc, a)
					if err != nil {
						return "", err
					}
					order[i] = id
				}
				if _, err := s.Apply(workspace.ReorderNotesOp{Order: order}); err != nil {
					return "", err
				}
				return "Reordered notes", nil
			})
		},
	}
}

func newNoteMoveCmd(app *App, ref func() string) *cobra.Command {
	var up, down bool
	var by int

	cmd := &cobra.Command{
		Use:   "move NOTE",
		Short: "Move a note up or down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := moveDelta(up, down, by)
			if err != nil {
				return err
			}
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				doc := s.Document()
				id, err := resolveNote(doc, args[0])
				if err != nil {
					return "", err
				}
				order, _ := workspace.MoveOrder(doc.NoteIDs(), id, delta)
				if _, err := s.Apply(workspace.ReorderNotesOp{Order: order}); err != nil {
					return "", err
				}
				pos := s.Document().NoteIndex(id) + 1
				return fmt.Sprintf("Moved note %s to position %d", formatter.TruncID(id), pos), nil
			})
		},
	}

	registerMoveFlags(cmd.Flags(), &up, &down, &by)
	return cmd
}

func newNoteSelectCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "select NOTE",
		Short: "Make a note the active capture target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				doc := s.Document()
				id, err := resolveNote(doc, args[0])
				if err != nil {
					return "", err
				}
				if err := s.Select(id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Active note: %s", formatter.Bold(doc.Notes[doc.NoteIndex(id)].Title)), nil
			})
		},
	}
}
