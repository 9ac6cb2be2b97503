package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleDoc() domain.Workspace {
	return domain.Workspace{
		ID:                "ws-12345678-abcd",
		Title:             "Platform interview",
		BackgroundContext: "Senior backend role",
		Notes: []domain.Note{
			{ID: "note-aaaa", Title: "System design", Items: []domain.Item{
				{ID: "item-1", Kind: domain.ItemText, Content: "Sharding strategies", Provenance: domain.ProvenanceManual},
				{ID: "item-2", Kind: domain.ItemImage, Content: "https://img.example/diagram.png", Provenance: domain.ProvenanceWeb,
					Source: &domain.Source{Title: "Diagram", Domain: "example.com"}},
			}},
			{ID: "note-bbbb", Title: "Behavioral"},
		},
		Outline: []domain.OutlineBlock{
			{ID: "blk-1", Kind: domain.BlockHeading, Level: 1, Text: "Platform interview"},
			{ID: "blk-2", Kind: domain.BlockParagraph, Text: ""},
		},
	}
}

func TestFormatWorkspace(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	got := stripANSI(FormatWorkspace(WorkspaceView{Doc: sampleDoc(), Active: "note-bbbb", Dirty: true, Now: now}))

	assert.Contains(t, got, "Platform interview")
	assert.Contains(t, got, "ws-12345")
	assert.Contains(t, got, "never saved")
	assert.Contains(t, got, "unsaved changes")
	assert.Contains(t, got, "2 notes")
	assert.Contains(t, got, "2 items")
	assert.Contains(t, got, "Senior backend role")
	assert.Contains(t, got, "▶ Behavioral")
	assert.Contains(t, got, "↗ example.com")
	assert.Contains(t, got, "# Platform interview")
	assert.Contains(t, got, "(empty)")
}

func TestFormatWorkspace_NoNotes(t *testing.T) {
	doc := sampleDoc()
	doc.Notes = nil
	got := stripANSI(FormatWorkspace(WorkspaceView{Doc: doc, Now: time.Now()}))
	assert.Contains(t, got, "No notes yet")
}

func TestFormatProjectList(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	list := []*domain.ProjectSummary{
		{ID: "aaaaaaaa-1111", Title: "Newest", LastModifiedAt: now, NoteCount: 2, ItemCount: 5, OutlineBlockCount: 3, HasContext: true},
		{ID: "bbbbbbbb-2222", Title: "Older", LastModifiedAt: now.Add(-72 * time.Hour)},
	}
	got := stripANSI(FormatProjectList(list, "bbbbbbbb-2222", now))

	assert.Contains(t, got, "WORKSPACES")
	assert.Contains(t, got, "aaaaaaaa")
	assert.Contains(t, got, "Newest ✎")
	assert.Contains(t, got, "3d ago")
	assert.Less(t, strings.Index(got, "Newest"), strings.Index(got, "Older"), "order is kept")
	assert.Contains(t, got, "▶  bbbbbbbb")
}

func TestFormatSearchResults(t *testing.T) {
	results := []contract.SearchResult{
		{
			Episode: contract.Episode{Title: "Scaling Go", Description: "<p>How <b>Go</b> scales</p>",
				PublishDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
			Matches: &contract.Matches{Title: []contract.Span{{Start: 8, End: 10}}, Description: []contract.Span{{Start: 4, End: 6}}},
		},
		{Episode: contract.Episode{Title: "Unranked"}},
	}
	raw := FormatSearchResults("go", results)
	got := stripANSI(raw)

	assert.Contains(t, got, `EPISODES FOR "GO"`)
	assert.Contains(t, got, "1. Scaling Go")
	assert.Contains(t, got, "How Go scales")
	assert.NotContains(t, got, "<b>")
	assert.Contains(t, got, "May 1, 2024")
	assert.Less(t, strings.Index(got, "Scaling"), strings.Index(got, "Unranked"))
}

func TestFormatSearchResults_Empty(t *testing.T) {
	assert.Equal(t, `No episodes match "zzz".`, stripANSI(FormatSearchResults("zzz", nil)))
}

func TestRenderHighlighted_MarksOnlySpans(t *testing.T) {
	plain := func(s ...string) string { return "[" + s[0] + "]" }
	got := stripANSI(RenderHighlighted("abcdef", []contract.Span{{Start: 2, End: 4}}, plain))
	assert.Equal(t, "[ab]cd[ef]", got)
}
