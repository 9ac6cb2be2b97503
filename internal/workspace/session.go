package workspace

import (
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
)

// ActiveNote targets AddItem at the selected note. With no selection a
// note titled domain.DefaultCaptureTitle is created and selected first.
const ActiveNote = "active"

// Session owns the one open document and its selection. It is not safe for
// concurrent use; a session belongs to a single UI loop.
type Session struct {
	engine *Engine
	doc    domain.Workspace
	sel    Selection
	dirty  bool
}

// NewSession starts a session on a fresh default document.
func NewSession(engine *Engine) *Session {
	doc := engine.New()
	return &Session{engine: engine, doc: doc, sel: OnLoad(doc), dirty: true}
}

// RestoreSession opens doc with activeID selected when it still names a
// note, otherwise the load default.
func RestoreSession(engine *Engine, doc domain.Workspace, activeID string) *Session {
	s := &Session{engine: engine, doc: doc.Clone(), sel: Selected(activeID)}
	s.sel = s.sel.Reconcile(s.doc)
	return s
}

// RecoverSession starts an unsaved session on a fresh default document that
// keeps id. It replaces a document whose snapshot could not be read.
func RecoverSession(engine *Engine, id string) *Session {
	doc := engine.NewWithID(id)
	return &Session{engine: engine, doc: doc, sel: OnLoad(doc), dirty: true}
}

// Document returns a copy of the current document.
func (s *Session) Document() domain.Workspace { return s.doc.Clone() }

func (s *Session) ID() string { return s.doc.ID }

func (s *Session) Selection() Selection { return s.sel }

// Dirty reports whether the document changed since the last MarkSaved.
func (s *Session) Dirty() bool { return s.dirty }

// Apply runs op and reconciles the selection. A failed op leaves the
// session untouched.
func (s *Session) Apply(op Op) (Effect, error) {
	next, eff, err := s.engine.Apply(s.doc, op)
	if err != nil {
		return Effect{}, err
	}
	sel := s.sel
	switch o := op.(type) {
	case AddNoteOp:
		sel = sel.AfterAdd(eff.NoteID)
	case DeleteNoteOp:
		sel = sel.AfterDelete(next, o.NoteID)
	case ResetOp:
		sel = OnLoad(next)
	}
	s.commit(next, sel.Reconcile(next))
	return eff, nil
}

// Select makes noteID the active note. The selection is saved with the
// document, so changing it marks the session dirty.
func (s *Session) Select(noteID string) error {
	sel, err := s.sel.Select(s.doc, noteID)
	if err != nil {
		return err
	}
	if sel != s.sel {
		s.sel = sel
		s.dirty = true
	}
	return nil
}

// AddItem appends item to noteID, or to the active note when noteID is
// ActiveNote. Creating the capture note and adding the item happen as one
// step: if the item is rejected, no note is created either.
func (s *Session) AddItem(noteID string, item domain.Item) (Effect, error) {
	if noteID != ActiveNote {
		return s.Apply(AddItemOp{NoteID: noteID, Item: item})
	}
	if active, ok := s.sel.ID(); ok {
		return s.Apply(AddItemOp{NoteID: active, Item: item})
	}

	withNote, created := s.engine.AddNote(s.doc, domain.DefaultCaptureTitle)
	next, itemID, err := s.engine.AddItem(withNote, created, item)
	if err != nil {
		return Effect{}, err
	}
	s.commit(next, Selected(created))
	return Effect{NoteID: created, ItemID: itemID}, nil
}

// MarkSaved records a successful save at at.
func (s *Session) MarkSaved(at time.Time) {
	at = at.UTC()
	s.doc.LastSavedAt = &at
	s.dirty = false
}

func (s *Session) commit(doc domain.Workspace, sel Selection) {
	s.doc = doc
	s.sel = sel
	s.dirty = true
}
