package workspace

import (
	"testing"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(ident.NewSequence("t"))
}

// docWithNotes returns a fresh document plus notes titled after titles.
func docWithNotes(t *testing.T, e *Engine, titles ...string) (domain.Workspace, []string) {
	t.Helper()
	doc := e.New()
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		var id string
		doc, id = e.AddNote(doc, title)
		ids = append(ids, id)
	}
	return doc, ids
}

func textItem(content string) domain.Item {
	return domain.Item{Kind: domain.ItemText, Content: content}
}

// stuckGenerator returns the same ids first, forcing the engine to redraw.
type stuckGenerator struct {
	ids  []string
	next *ident.Sequence
}

func (g *stuckGenerator) Next() string {
	if len(g.ids) > 0 {
		id := g.ids[0]
		g.ids = g.ids[1:]
		return id
	}
	return g.next.Next()
}

func TestEngine_New_Defaults(t *testing.T) {
	doc := newTestEngine().New()

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, domain.DefaultWorkspaceTitle, doc.Title)
	assert.Empty(t, doc.Notes)
	require.Len(t, doc.Outline, 1)
	assert.Equal(t, domain.BlockHeading, doc.Outline[0].Kind)
	assert.Equal(t, 1, doc.Outline[0].Level)
	assert.Equal(t, "", doc.Outline[0].Text)
	assert.Nil(t, doc.LastSavedAt)
	assert.NotEqual(t, doc.ID, doc.Outline[0].ID)
}

func TestEngine_NilGeneratorFallsBackToUUID(t *testing.T) {
	e := NewEngine(nil)
	a, b := e.New(), e.New()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEngine_NextID_SkipsIDsInDocument(t *testing.T) {
	gen := &stuckGenerator{ids: []string{"dup", "dup", "", "dup"}, next: ident.NewSequence("x")}
	e := NewEngine(gen)

	doc := domain.Workspace{ID: "ws"}
	doc, first := e.AddNote(doc, "A")
	doc, second := e.AddNote(doc, "B")

	assert.Equal(t, "dup", first)
	assert.Equal(t, "x-1", second)
	assert.Len(t, doc.Notes, 2)
}

func TestEngine_Rename_KeepsEmptyTitle(t *testing.T) {
	e := newTestEngine()
	doc := e.New()

	renamed := e.Rename(doc, "")
	assert.Equal(t, "", renamed.Title)
	assert.Equal(t, domain.DefaultWorkspaceTitle, doc.Title, "input must not change")

	renamed = e.Rename(renamed, "Founder chat")
	assert.Equal(t, "Founder chat", renamed.Title)
}

func TestEngine_SetContext(t *testing.T) {
	e := newTestEngine()
	doc := e.SetContext(e.New(), "Series B fintech")
	assert.Equal(t, "Series B fintech", doc.BackgroundContext)
}

func TestEngine_AddNote(t *testing.T) {
	e := newTestEngine()
	doc := e.New()

	next, id := e.AddNote(doc, "")
	require.Len(t, next.Notes, 1)
	assert.Equal(t, id, next.Notes[0].ID)
	assert.Equal(t, domain.DefaultNoteTitle, next.Notes[0].Title)
	assert.Empty(t, next.Notes[0].Items)
	assert.Empty(t, doc.Notes, "input must not change")

	next, id2 := e.AddNote(next, "Funding")
	require.Len(t, next.Notes, 2)
	assert.Equal(t, id2, next.Notes[1].ID, "notes are appended")
	assert.Equal(t, "Funding", next.Notes[1].Title)
}

func TestEngine_RenameNote(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A", "B")

	next, err := e.RenameNote(doc, ids[1], "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "A", next.Notes[0].Title)
	assert.Equal(t, "Renamed", next.Notes[1].Title)
	assert.Equal(t, "B", doc.Notes[1].Title)
}

func TestEngine_UnknownIDsFailClosed(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A")
	doc, _, err := e.AddItem(doc, ids[0], textItem("x"))
	require.NoError(t, err)
	before := doc.Clone()

	cases := map[string]func() (domain.Workspace, error){
		"rename note": func() (domain.Workspace, error) { return e.RenameNote(doc, "nope", "x") },
		"delete note": func() (domain.Workspace, error) { return e.DeleteNote(doc, "nope") },
		"add item": func() (domain.Workspace, error) {
			w, _, err := e.AddItem(doc, "nope", textItem("x"))
			return w, err
		},
		"delete item unknown note": func() (domain.Workspace, error) { return e.DeleteItem(doc, "nope", "x") },
		"delete item unknown item": func() (domain.Workspace, error) { return e.DeleteItem(doc, ids[0], "nope") },
		"reorder items":            func() (domain.Workspace, error) { return e.ReorderItems(doc, "nope", nil) },
		"update block":             func() (domain.Workspace, error) { return e.UpdateOutlineBlockText(doc, "nope", "x") },
		"heading level":            func() (domain.Workspace, error) { return e.SetHeadingLevel(doc, "nope", 2) },
		"delete block":             func() (domain.Workspace, error) { return e.DeleteOutlineBlock(doc, "nope") },
	}

	for name, run := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := run()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidOperation)
			assert.Equal(t, before, got, "document must be returned unchanged")
			assert.Equal(t, before, doc, "input must not change")
		})
	}
}

func TestEngine_ReorderNotes(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A", "B", "C")
	doc, _, err := e.AddItem(doc, ids[0], textItem("in A"))
	require.NoError(t, err)

	next, err := e.ReorderNotes(doc, []string{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, next.NoteIDs())
	assert.Equal(t, doc.Notes[0], next.Notes[1], "note contents travel with the note")
	assert.Equal(t, ids, doc.NoteIDs(), "input must not change")
}

func TestEngine_ReorderNotes_RejectsNonPermutations(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A", "B", "C")

	tests := []struct {
		name  string
		order []string
	}{
		{"too short", []string{ids[0], ids[1]}},
		{"too long", []string{ids[0], ids[1], ids[2], ids[0]}},
		{"duplicate", []string{ids[0], ids[0], ids[1]}},
		{"unknown", []string{ids[0], ids[1], "zzz"}},
		{"empty", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.ReorderNotes(doc, tc.order)
			assert.ErrorIs(t, err, domain.ErrInvalidOperation)
			assert.Equal(t, ids, got.NoteIDs())
		})
	}
}

func TestEngine_ReorderNotes_EmptyDocument(t *testing.T) {
	e := newTestEngine()
	doc := e.New()
	next, err := e.ReorderNotes(doc, nil)
	require.NoError(t, err)
	assert.Nil(t, next.Notes)
}

func TestEngine_DeleteNote_RemovesItems(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A", "B")
	doc, itemID, err := e.AddItem(doc, ids[0], textItem("x"))
	require.NoError(t, err)

	next, err := e.DeleteNote(doc, ids[0])
	require.NoError(t, err)
	assert.Equal(t, []string{ids[1]}, next.NoteIDs())
	assert.False(t, next.HasID(itemID), "items of a deleted note must be unreachable")
	assert.Equal(t, 0, next.ItemCount())
	assert.True(t, doc.HasID(itemID), "input must not change")
}

func TestEngine_DeleteLastNote_LeavesNil(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A")
	next, err := e.DeleteNote(doc, ids[0])
	require.NoError(t, err)
	assert.Nil(t, next.Notes)
}

func TestEngine_AddItem(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A")

	doc, first, err := e.AddItem(doc, ids[0], textItem("first"))
	require.NoError(t, err)
	web := domain.Item{
		Kind:       domain.ItemImage,
		Content:    "https://cdn.example.com/a.png",
		Provenance: domain.ProvenanceWeb,
		Source:     &domain.Source{Title: "Profile", Domain: "example.com"},
	}
	doc, second, err := e.AddItem(doc, ids[0], web)
	require.NoError(t, err)

	items := doc.Notes[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0].ID)
	assert.Equal(t, second, items[1].ID)
	assert.Equal(t, domain.ProvenanceManual, items[0].Provenance, "provenance defaults to manual")
	assert.Equal(t, "example.com", items[1].Source.Domain)

	web.Source.Domain = "changed"
	assert.Equal(t, "example.com", doc.Notes[0].Items[1].Source.Domain, "source is copied")
}

func TestEngine_AddItem_RejectsInvalidItem(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A")

	_, _, err := e.AddItem(doc, ids[0], domain.Item{Kind: "video", Content: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Contains(t, err.Error(), "unknown kind video")

	_, _, err = e.AddItem(doc, ids[0], domain.Item{Kind: domain.ItemText, Content: "x", Source: &domain.Source{}})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestEngine_DeleteAndReorderItems(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A")
	doc, i1, _ := e.AddItem(doc, ids[0], textItem("1"))
	doc, i2, _ := e.AddItem(doc, ids[0], textItem("2"))
	doc, i3, _ := e.AddItem(doc, ids[0], textItem("3"))

	reordered, err := e.ReorderItems(doc, ids[0], []string{i3, i1, i2})
	require.NoError(t, err)
	assert.Equal(t, "3", reordered.Notes[0].Items[0].Content)

	_, err = e.ReorderItems(doc, ids[0], []string{i1, i2})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	trimmed, err := e.DeleteItem(reordered, ids[0], i1)
	require.NoError(t, err)
	require.Len(t, trimmed.Notes[0].Items, 2)
	assert.Equal(t, i3, trimmed.Notes[0].Items[0].ID)
	assert.Equal(t, i2, trimmed.Notes[0].Items[1].ID)
}

func TestEngine_OutlineBlocks(t *testing.T) {
	e := newTestEngine()
	doc := e.New()
	first := doc.Outline[0].ID

	doc, heading, err := e.AddOutlineBlock(doc, domain.BlockHeading)
	require.NoError(t, err)
	doc, para, err := e.AddOutlineBlock(doc, domain.BlockParagraph)
	require.NoError(t, err)

	require.Len(t, doc.Outline, 3)
	assert.Equal(t, domain.DefaultHeadingLevel, doc.Outline[1].Level)
	assert.Equal(t, 0, doc.Outline[2].Level, "paragraphs have no level")
	assert.Equal(t, "", doc.Outline[2].Text)

	_, _, err = e.AddOutlineBlock(doc, "quote")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	edited, err := e.UpdateOutlineBlockText(doc, para, "Ask about hiring")
	require.NoError(t, err)
	assert.Equal(t, "Ask about hiring", edited.Outline[2].Text)
	assert.Equal(t, "", edited.Outline[1].Text, "other blocks unchanged")
	assert.Equal(t, "", doc.Outline[2].Text, "input must not change")

	leveled, err := e.SetHeadingLevel(edited, heading, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, leveled.Outline[1].Level)

	_, err = e.SetHeadingLevel(edited, heading, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	_, err = e.SetHeadingLevel(edited, para, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	reordered, err := e.ReorderOutline(leveled, []string{para, first, heading})
	require.NoError(t, err)
	assert.Equal(t, para, reordered.Outline[0].ID)

	removed, err := e.DeleteOutlineBlock(reordered, first)
	require.NoError(t, err)
	require.Len(t, removed.Outline, 2)
	assert.Equal(t, heading, removed.Outline[1].ID)
}

func TestEngine_Apply_ReportsEffects(t *testing.T) {
	e := newTestEngine()
	doc := e.New()

	doc, eff, err := e.Apply(doc, AddNoteOp{Title: "A"})
	require.NoError(t, err)
	noteID := eff.NoteID
	assert.NotEmpty(t, noteID)

	doc, eff, err = e.Apply(doc, AddItemOp{NoteID: noteID, Item: textItem("x")})
	require.NoError(t, err)
	assert.Equal(t, noteID, eff.NoteID)
	assert.NotEmpty(t, eff.ItemID)

	doc, eff, err = e.Apply(doc, AddOutlineBlockOp{Kind: domain.BlockParagraph})
	require.NoError(t, err)
	assert.NotEmpty(t, eff.BlockID)

	prev := doc.ID
	doc, _, err = e.Apply(doc, ResetOp{})
	require.NoError(t, err)
	assert.NotEqual(t, prev, doc.ID, "reset allocates a new id")
	assert.Empty(t, doc.Notes)
}

func TestEngine_Apply_RejectsInvalidUTF8(t *testing.T) {
	e := newTestEngine()
	doc, ids := docWithNotes(t, e, "A")
	blockID := doc.Outline[0].ID

	ops := []Op{
		RenameDocumentOp{Title: "t\xff"},
		SetContextOp{Text: "\xc3"},
		AddNoteOp{Title: "n\xfe"},
		RenameNoteOp{NoteID: ids[0], Title: "\xff"},
		AddItemOp{NoteID: ids[0], Item: textItem("a\xffb")},
		UpdateOutlineBlockTextOp{BlockID: blockID, Text: "b\xff"},
	}
	for _, op := range ops {
		next, _, err := e.Apply(doc, op)
		require.ErrorIs(t, err, domain.ErrInvalidOperation, op.Name())
		assert.Equal(t, doc, next, op.Name())
	}

	next, _, err := e.Apply(doc, RenameDocumentOp{Title: "Z\u00fcrich"})
	require.NoError(t, err)
	assert.Equal(t, "Z\u00fcrich", next.Title)
}

func TestTitleOrDefault(t *testing.T) {
	assert.Equal(t, "X", TitleOrDefault("X", "d"))
	assert.Equal(t, "d", TitleOrDefault("  ", "d"))
	assert.Equal(t, "d", TitleOrDefault("", "d"))
}
