package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App, ref func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Capture and manage items inside notes",
	}

	cmd.AddCommand(
		newItemAddCmd(app, ref),
		newItemDeleteCmd(app, ref),
		newItemMoveCmd(app, ref),
	)

	return cmd
}

func newItemAddCmd(app *App, ref func() string) *cobra.Command {
	var noteRef, sourceTitle, sourceDomain string
	var web bool
	kind := newKindFlag()

	cmd := &cobra.Command{
		Use:   "add CONTENT",
		Short: "Add a text or image item to a note",
		Long: `Add an item to a note. Without --note the item goes to the active note;
if there are no notes yet, a "` + domain.DefaultCaptureTitle + `" note is created for it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := domain.Item{
				Kind:       domain.ItemKind(kind.String()),
				Content:    strings.Join(args, " "),
				Provenance: domain.ProvenanceManual,
			}
			if web {
				item.Provenance = domain.ProvenanceWeb
				item.Source = &domain.Source{Title: sourceTitle, Domain: sourceDomain}
			} else if sourceTitle != "" || sourceDomain != "" {
				return fmt.Errorf("--source-title and --source-domain require --web")
			}

			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				target := workspace.ActiveNote
				if noteRef != workspace.ActiveNote {
					id, err := resolveNote(s.Document(), noteRef)
					if err != nil {
						return "", err
					}
					target = id
				}
				eff, err := s.AddItem(target, item)
				if err != nil {
					return "", err
				}
				doc := s.Document()
				note := doc.Notes[doc.NoteIndex(eff.NoteID)]
				return fmt.Sprintf("Added %s item %s to %s", item.Kind,
					formatter.TruncID(eff.ItemID), formatter.Bold(note.Title)), nil
			})
		},
	}

	cmd.Flags().StringVar(&noteRef, "note", workspace.ActiveNote, "target note, or 'active'")
	cmd.Flags().Var(kind, "kind", "item kind")
	cmd.Flags().BoolVar(&web, "web", false, "mark the item as captured from the web")
	cmd.Flags().StringVar(&sourceTitle, "source-title", "", "title of the web source")
	cmd.Flags().StringVar(&sourceDomain, "source-domain", "", "domain of the web source")
	return cmd
}

func newItemDeleteCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NOTE ITEM",
		Aliases: []string{"rm"},
		Short:   "Delete an item from a note",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				doc := s.Document()
				noteID, err := resolveNote(doc, args[0])
				if err != nil {
					return "", err
				}
				itemID, err := resolveItem(doc, noteID, args[1])
				if err != nil {
					return "", err
				}
				if _, err := s.Apply(workspace.DeleteItemOp{NoteID: noteID, ItemID: itemID}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Deleted item %s", formatter.TruncID(itemID)), nil
			})
		},
	}
}

func newItemMoveCmd(app *App, ref func() string) *cobra.Command {
	var up, down bool
	var by int

	cmd := &cobra.Command{
		Use:   "move NOTE ITEM",
		Short: "Move an item up or down within its note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := moveDelta(up, down, by)
			if err != nil {
				return err
			}
			return mutate(cmd, app, ref(), func(s *workspace.Session) (string, error) {
				doc := s.Document()
				noteID, err := resolveNote(doc, args[0])
				if err != nil {
					return "", err
				}
				itemID, err := resolveItem(doc, noteID, args[1])
				if err != nil {
					return "", err
				}
				order, _ := workspace.MoveOrder(itemIDs(doc.Notes[doc.NoteIndex(noteID)]), itemID, delta)
				if _, err := s.Apply(workspace.ReorderItemsOp{NoteID: noteID, Order: order}); err != nil {
					return "", err
				}
				return fmt.Sprintf("Moved item %s", formatter.TruncID(itemID)), nil
			})
		},
	}

	registerMoveFlags(cmd.Flags(), &up, &down, &by)
	return cmd
}
