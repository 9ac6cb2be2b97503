package workspace

import (
	"testing"
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectedID(t *testing.T, s *Session) string {
	t.Helper()
	id, ok := s.Selection().ID()
	require.True(t, ok, "expected a selected note")
	return id
}

func TestScenarioA_AddNoteSelectsIt(t *testing.T) {
	s := NewSession(newTestEngine())
	require.Empty(t, s.Document().Notes)

	eff, err := s.Apply(AddNoteOp{})
	require.NoError(t, err)

	doc := s.Document()
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, eff.NoteID, doc.Notes[0].ID)
	assert.Equal(t, eff.NoteID, selectedID(t, s))
}

func TestScenarioB_DeleteSelectedFallsBackToFirst(t *testing.T) {
	s := NewSession(newTestEngine())
	a, _ := s.Apply(AddNoteOp{Title: "A"})
	b, _ := s.Apply(AddNoteOp{Title: "B"})
	c, _ := s.Apply(AddNoteOp{Title: "C"})
	require.NoError(t, s.Select(b.NoteID))

	_, err := s.Apply(DeleteNoteOp{NoteID: b.NoteID})
	require.NoError(t, err)

	assert.Equal(t, []string{a.NoteID, c.NoteID}, s.Document().NoteIDs())
	assert.Equal(t, a.NoteID, selectedID(t, s))
}

func TestScenarioC_CaptureIntoActiveWithNoNotes(t *testing.T) {
	s := NewSession(newTestEngine())

	eff, err := s.AddItem(ActiveNote, domain.Item{Kind: domain.ItemText, Content: "x"})
	require.NoError(t, err)

	doc := s.Document()
	require.Len(t, doc.Notes, 1)
	note := doc.Notes[0]
	assert.Equal(t, eff.NoteID, note.ID)
	assert.Equal(t, domain.DefaultCaptureTitle, note.Title)
	assert.Equal(t, note.ID, selectedID(t, s))
	require.Len(t, note.Items, 1)
	assert.Equal(t, "x", note.Items[0].Content)
	assert.Equal(t, eff.ItemID, note.Items[0].ID)
}

func TestSession_AddItemActiveUsesSelection(t *testing.T) {
	s := NewSession(newTestEngine())
	a, _ := s.Apply(AddNoteOp{Title: "A"})
	_, _ = s.Apply(AddNoteOp{Title: "B"})
	require.NoError(t, s.Select(a.NoteID))

	eff, err := s.AddItem(ActiveNote, domain.Item{Kind: domain.ItemText, Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, a.NoteID, eff.NoteID)
	assert.Len(t, s.Document().Notes[0].Items, 1)
	assert.Empty(t, s.Document().Notes[1].Items)
}

func TestSession_AddItemActiveInvalidItemCreatesNothing(t *testing.T) {
	s := NewSession(newTestEngine())
	before := s.Document()

	_, err := s.AddItem(ActiveNote, domain.Item{Kind: domain.ItemText})
	require.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, before, s.Document())
	assert.Equal(t, NoSelection(), s.Selection())
}

func TestSession_FailedOpLeavesStateUntouched(t *testing.T) {
	s := NewSession(newTestEngine())
	a, _ := s.Apply(AddNoteOp{Title: "A"})
	s.MarkSaved(time.Now())
	before := s.Document()

	_, err := s.Apply(DeleteNoteOp{NoteID: "missing"})
	require.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, before, s.Document())
	assert.Equal(t, a.NoteID, selectedID(t, s))
	assert.False(t, s.Dirty())

	err = s.Select("missing")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestSession_SelectMarksDirtyOnlyOnChange(t *testing.T) {
	s := NewSession(newTestEngine())
	a, _ := s.Apply(AddNoteOp{Title: "A"})
	b, _ := s.Apply(AddNoteOp{Title: "B"})
	s.MarkSaved(time.Now())

	require.NoError(t, s.Select(b.NoteID))
	assert.False(t, s.Dirty(), "selecting the active note changes nothing")

	require.NoError(t, s.Select(a.NoteID))
	assert.True(t, s.Dirty())
	assert.Equal(t, Selected(a.NoteID), s.Selection())

	s.MarkSaved(time.Now())
	require.Error(t, s.Select("missing"))
	assert.False(t, s.Dirty(), "a failed select is not a change")
}

func TestSession_DocumentIsACopy(t *testing.T) {
	s := NewSession(newTestEngine())
	_, _ = s.Apply(AddNoteOp{Title: "A"})

	doc := s.Document()
	doc.Notes[0].Title = "mutated"
	assert.Equal(t, "A", s.Document().Notes[0].Title)
}

func TestSession_RestoreReconcilesSelection(t *testing.T) {
	doc := notesDoc("A", "B")

	assert.Equal(t, Selected("B"), RestoreSession(newTestEngine(), doc, "B").Selection())
	assert.Equal(t, Selected("A"), RestoreSession(newTestEngine(), doc, "stale").Selection())
	assert.Equal(t, Selected("A"), RestoreSession(newTestEngine(), doc, "").Selection())
	assert.Equal(t, NoSelection(), RestoreSession(newTestEngine(), notesDoc(), "A").Selection())
	assert.False(t, RestoreSession(newTestEngine(), doc, "").Dirty())
}

func TestSession_ResetAllocatesNewDocument(t *testing.T) {
	s := NewSession(newTestEngine())
	_, _ = s.Apply(AddNoteOp{Title: "A"})
	s.MarkSaved(time.Now())
	old := s.ID()

	_, err := s.Apply(ResetOp{})
	require.NoError(t, err)

	assert.NotEqual(t, old, s.ID())
	assert.Empty(t, s.Document().Notes)
	assert.Len(t, s.Document().Outline, 1)
	assert.Nil(t, s.Document().LastSavedAt)
	assert.Equal(t, NoSelection(), s.Selection())
	assert.True(t, s.Dirty())
}

func TestRecoverSession_KeepsID(t *testing.T) {
	s := RecoverSession(newTestEngine(), "ws-broken")

	doc := s.Document()
	assert.Equal(t, "ws-broken", doc.ID)
	assert.Equal(t, domain.DefaultWorkspaceTitle, doc.Title)
	assert.Empty(t, doc.Notes)
	require.Len(t, doc.Outline, 1)
	assert.NotEqual(t, "ws-broken", doc.Outline[0].ID)
	assert.True(t, s.Dirty(), "recovered document differs from what is stored")
}

func TestSession_MarkSaved(t *testing.T) {
	s := NewSession(newTestEngine())
	assert.True(t, s.Dirty(), "a new document has never been saved")

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.FixedZone("X", 7200))
	s.MarkSaved(at)

	assert.False(t, s.Dirty())
	saved := s.Document().LastSavedAt
	require.NotNil(t, saved)
	assert.True(t, at.Equal(*saved))
	assert.Equal(t, time.UTC, saved.Location())

	_, _ = s.Apply(SetContextOp{Text: "ctx"})
	assert.True(t, s.Dirty())
}
