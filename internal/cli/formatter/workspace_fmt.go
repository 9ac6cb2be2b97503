package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// WorkspaceView holds what the show command renders.
type WorkspaceView struct {
	Doc    domain.Workspace
	Active string // selected note id, "" for none
	Dirty  bool
	Now    time.Time
}

// FormatWorkspace renders metadata and notes side by side above the outline.
func FormatWorkspace(v WorkspaceView) string {
	left := buildMetadataPanel(v)
	right := buildNotesPanel(v.Doc, v.Active)
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", top+"\n\n"+FormatOutline(v.Doc.Outline))
}

func buildMetadataPanel(v WorkspaceView) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(v.Doc.Title) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID     "), TruncID(v.Doc.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("SAVED  "), SavedLabel(v.Doc.LastSavedAt, v.Now)))
	if v.Dirty {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATE  "), StyleYellow.Render("unsaved changes")))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("NOTES  "), Plural(len(v.Doc.Notes), "note")))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ITEMS  "), Plural(v.Doc.ItemCount(), "item")))

	if ctx := strings.TrimSpace(v.Doc.BackgroundContext); ctx != "" {
		b.WriteString("\n" + Header("Context") + "\n")
		b.WriteString(lipgloss.NewStyle().Width(40).Render(ctx) + "\n")
	}
	return b.String()
}

func buildNotesPanel(doc domain.Workspace, active string) string {
	var b strings.Builder
	b.WriteString(Header("Notes") + "\n")
	if len(doc.Notes) == 0 {
		b.WriteString(Dim("No notes yet. Add one with 'prepdesk note add'.") + "\n")
		return b.String()
	}
	b.WriteString(RenderTree(NoteTree(doc, active)))
	return b.String()
}

// NoteTree lays out notes with their items nested beneath them.
func NoteTree(doc domain.Workspace, active string) []TreeItem {
	var items []TreeItem
	for _, n := range doc.Notes {
		items = append(items, TreeItem{
			Title:  n.Title,
			Active: n.ID == active,
			Detail: TruncIDPlain(n.ID),
		})
		for i, it := range n.Items {
			title := KindIcon(it.Kind) + " " + Truncate(it.Content, 48)
			if badge := ProvenanceBadge(it); badge != "" {
				title += " " + badge
			}
			items = append(items, TreeItem{
				Title:  title,
				Level:  1,
				IsLast: i == len(n.Items)-1,
				Detail: TruncIDPlain(it.ID),
			})
		}
	}
	return items
}

// FormatOutline renders outline blocks in order, headings indented by level.
func FormatOutline(blocks []domain.OutlineBlock) string {
	var b strings.Builder
	b.WriteString(Header("Outline") + "\n")
	if len(blocks) == 0 {
		b.WriteString(Dim("Outline is empty.") + "\n")
		return b.String()
	}
	for _, blk := range blocks {
		id := Dim(fmt.Sprintf("[%s]", TruncIDPlain(blk.ID)))
		text := blk.Text
		if strings.TrimSpace(text) == "" {
			text = Dim("(empty)")
		}
		switch blk.Kind {
		case domain.BlockHeading:
			indent := strings.Repeat("  ", max(blk.Level-1, 0))
			marker := strings.Repeat("#", max(blk.Level, 1))
			b.WriteString(fmt.Sprintf("%s%s %s  %s\n", indent, StyleHeader.Render(marker), StyleBold.Render(text), id))
		default:
			b.WriteString(fmt.Sprintf("    %s  %s\n", StyleFg.Render(text), id))
		}
	}
	return b.String()
}

// TruncIDPlain is TruncID without styling, for use inside other styles.
func TruncIDPlain(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
