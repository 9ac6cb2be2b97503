package workspace

import "github.com/alexanderramin/prepdesk/internal/domain"

// OpSelectNote names explicit selection in errors.
const OpSelectNote = "select_note"

// Selection is either NoSelection or Selected(noteID). The zero value is
// NoSelection.
type Selection struct {
	noteID string
}

func NoSelection() Selection { return Selection{} }

func Selected(noteID string) Selection { return Selection{noteID: noteID} }

// ID returns the selected note id and whether a note is selected.
func (s Selection) ID() (string, bool) {
	return s.noteID, s.noteID != ""
}

func (s Selection) String() string {
	if s.noteID == "" {
		return "none"
	}
	return s.noteID
}

// AfterAdd selects a newly added note.
func (s Selection) AfterAdd(noteID string) Selection {
	return Selected(noteID)
}

// AfterDelete updates the selection once deletedID has been removed. doc is
// the document after the delete. Deleting an unselected note keeps the
// selection.
func (s Selection) AfterDelete(doc domain.Workspace, deletedID string) Selection {
	if s.noteID != deletedID {
		return s
	}
	return firstNote(doc)
}

// Select selects an existing note. Unknown ids fail and leave s unchanged.
func (s Selection) Select(doc domain.Workspace, noteID string) (Selection, error) {
	if doc.NoteIndex(noteID) < 0 {
		return s, domain.NotFoundOp(OpSelectNote, "note", noteID)
	}
	return Selected(noteID), nil
}

// OnLoad is the selection for a freshly loaded or reset document.
func OnLoad(doc domain.Workspace) Selection {
	return firstNote(doc)
}

// Reconcile replaces a stale selection with the first note, or none.
func (s Selection) Reconcile(doc domain.Workspace) Selection {
	if s.noteID != "" && doc.NoteIndex(s.noteID) >= 0 {
		return s
	}
	return firstNote(doc)
}

func firstNote(doc domain.Workspace) Selection {
	if len(doc.Notes) == 0 {
		return NoSelection()
	}
	return Selected(doc.Notes[0].ID)
}
