package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
)

// FormatProjectList renders the saved workspaces, most recent first, inside
// a bordered box. current marks the workspace the CLI would open by default.
func FormatProjectList(projects []*domain.ProjectSummary, current string, now time.Time) string {
	if len(projects) == 0 {
		return Dim("No saved workspaces. Create one with 'prepdesk new'.")
	}

	headers := []string{"", "ID", "TITLE", "NOTES", "ITEMS", "OUTLINE", "SAVED"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		marker := " "
		if p.ID == current {
			marker = StyleYellowBold.Render("▶")
		}
		id := p.DisplayID()
		if strings.TrimSpace(id) == "" {
			id = "--"
		}
		title := Bold(Truncate(p.Title, 40))
		if p.HasContext {
			title += " " + StylePurple.Render("✎")
		}
		rows = append(rows, []string{
			marker,
			Dim(id),
			title,
			fmt.Sprint(p.NoteCount),
			fmt.Sprint(p.ItemCount),
			fmt.Sprint(p.OutlineBlockCount),
			RelativeDateFrom(p.LastModifiedAt, now),
		})
	}

	return RenderBox("Workspaces", RenderTable(headers, rows))
}
