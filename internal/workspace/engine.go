// Package workspace holds the mutation engine, the selection controller and
// the session that owns the one open workspace document.
//
// Every Engine method takes a domain.Workspace by value and returns a new
// value. Inputs are never modified, so earlier states stay inspectable.
// Methods that reference a missing note, item or block fail closed with a
// *domain.OperationError and return the input unchanged.
package workspace

import (
	"errors"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/ident"
)

// Engine computes workspace mutations. It is stateless apart from its id source.
type Engine struct {
	ids ident.Generator
}

// NewEngine creates an Engine drawing ids from ids. A nil generator falls
// back to random UUIDs.
func NewEngine(ids ident.Generator) *Engine {
	if ids == nil {
		ids = ident.NewUUIDGenerator()
	}
	return &Engine{ids: ids}
}

// nextID draws ids until one is unused in doc.
func (e *Engine) nextID(doc domain.Workspace) string {
	for {
		id := e.ids.Next()
		if id != "" && !doc.HasID(id) {
			return id
		}
	}
}

// New returns a fresh default document: new id, default title, no notes and
// one empty heading block.
func (e *Engine) New() domain.Workspace {
	return e.NewWithID(e.nextID(domain.Workspace{}))
}

// NewWithID is New with a caller-chosen document id. Recovery from an
// unreadable snapshot uses it to keep the stored id.
func (e *Engine) NewWithID(id string) domain.Workspace {
	doc := domain.Workspace{ID: id, Title: domain.DefaultWorkspaceTitle}
	doc.Outline = []domain.OutlineBlock{{
		ID:    e.nextID(doc),
		Kind:  domain.BlockHeading,
		Level: 1,
	}}
	return doc
}

// Rename sets the document title exactly as given, including "" while the
// user is still editing.
func (e *Engine) Rename(doc domain.Workspace, title string) domain.Workspace {
	next := doc.Clone()
	next.Title = title
	return next
}

func (e *Engine) SetContext(doc domain.Workspace, text string) domain.Workspace {
	next := doc.Clone()
	next.BackgroundContext = text
	return next
}

// AddNote appends an empty note and returns its id. A blank title gets the
// default note title.
func (e *Engine) AddNote(doc domain.Workspace, title string) (domain.Workspace, string) {
	next := doc.Clone()
	id := e.nextID(next)
	next.Notes = append(next.Notes, domain.Note{
		ID:    id,
		Title: TitleOrDefault(title, domain.DefaultNoteTitle),
	})
	return next, id
}

func (e *Engine) RenameNote(doc domain.Workspace, noteID, title string) (domain.Workspace, error) {
	idx := doc.NoteIndex(noteID)
	if idx < 0 {
		return doc, domain.NotFoundOp(OpRenameNote, "note", noteID)
	}
	next := doc.Clone()
	next.Notes[idx].Title = title
	return next, nil
}

// ReorderNotes replaces the note order with order, which must be a
// permutation of the current note ids.
func (e *Engine) ReorderNotes(doc domain.Workspace, order []string) (domain.Workspace, error) {
	next := doc.Clone()
	notes, err := permute(next.Notes, func(n domain.Note) string { return n.ID }, order)
	if err != nil {
		return doc, &domain.OperationError{Op: OpReorderNotes, Reason: err.Error()}
	}
	next.Notes = notes
	return next, nil
}

func (e *Engine) DeleteNote(doc domain.Workspace, noteID string) (domain.Workspace, error) {
	idx := doc.NoteIndex(noteID)
	if idx < 0 {
		return doc, domain.NotFoundOp(OpDeleteNote, "note", noteID)
	}
	next := doc.Clone()
	next.Notes = compact(append(next.Notes[:idx], next.Notes[idx+1:]...))
	return next, nil
}

// AddItem appends item to the note's items with a generated id. Existing
// items keep their order.
func (e *Engine) AddItem(doc domain.Workspace, noteID string, item domain.Item) (domain.Workspace, string, error) {
	idx := doc.NoteIndex(noteID)
	if idx < 0 {
		return doc, "", domain.NotFoundOp(OpAddItem, "note", noteID)
	}
	if item.Provenance == "" {
		item.Provenance = domain.ProvenanceManual
	}
	if err := item.Validate(); err != nil {
		reason := err.Error()
		var opErr *domain.OperationError
		if errors.As(err, &opErr) {
			reason = opErr.Reason
		}
		return doc, "", &domain.OperationError{Op: OpAddItem, Kind: "note", ID: noteID, Reason: reason}
	}
	next := doc.Clone()
	item.ID = e.nextID(next)
	if item.Source != nil {
		src := *item.Source
		item.Source = &src
	}
	next.Notes[idx].Items = append(next.Notes[idx].Items, item)
	return next, item.ID, nil
}

func (e *Engine) DeleteItem(doc domain.Workspace, noteID, itemID string) (domain.Workspace, error) {
	idx := doc.NoteIndex(noteID)
	if idx < 0 {
		return doc, domain.NotFoundOp(OpDeleteItem, "note", noteID)
	}
	itemIdx := doc.Notes[idx].ItemIndex(itemID)
	if itemIdx < 0 {
		return doc, domain.NotFoundOp(OpDeleteItem, "item", itemID)
	}
	next := doc.Clone()
	items := next.Notes[idx].Items
	next.Notes[idx].Items = compact(append(items[:itemIdx], items[itemIdx+1:]...))
	return next, nil
}

func (e *Engine) ReorderItems(doc domain.Workspace, noteID string, order []string) (domain.Workspace, error) {
	idx := doc.NoteIndex(noteID)
	if idx < 0 {
		return doc, domain.NotFoundOp(OpReorderItems, "note", noteID)
	}
	next := doc.Clone()
	items, err := permute(next.Notes[idx].Items, func(it domain.Item) string { return it.ID }, order)
	if err != nil {
		return doc, &domain.OperationError{Op: OpReorderItems, Kind: "note", ID: noteID, Reason: err.Error()}
	}
	next.Notes[idx].Items = items
	return next, nil
}

// AddOutlineBlock appends an empty block. Headings start at the default level.
func (e *Engine) AddOutlineBlock(doc domain.Workspace, kind domain.BlockKind) (domain.Workspace, string, error) {
	if !kind.Valid() {
		return doc, "", &domain.OperationError{Op: OpAddBlock, Reason: "unknown block kind " + string(kind)}
	}
	next := doc.Clone()
	block := domain.OutlineBlock{ID: e.nextID(next), Kind: kind}
	if kind == domain.BlockHeading {
		block.Level = domain.DefaultHeadingLevel
	}
	next.Outline = append(next.Outline, block)
	return next, block.ID, nil
}

func (e *Engine) UpdateOutlineBlockText(doc domain.Workspace, blockID, text string) (domain.Workspace, error) {
	idx := doc.BlockIndex(blockID)
	if idx < 0 {
		return doc, domain.NotFoundOp(OpUpdateBlockText, "block", blockID)
	}
	next := doc.Clone()
	next.Outline[idx].Text = text
	return next, nil
}

func (e *Engine) SetHeadingLevel(doc domain.Workspace, blockID string, level int) (domain.Workspace, error) {
	idx := doc.BlockIndex(blockID)
	if idx < 0 {
		return doc, domain.NotFoundOp(OpSetHeadingLevel, "block", blockID)
	}
	if doc.Outline[idx].Kind != domain.BlockHeading {
		return doc, &domain.OperationError{Op: OpSetHeadingLevel, Kind: "block", ID: blockID, Reason: "not a heading"}
	}
	if level < domain.MinHeadingLevel || level > domain.MaxHeadingLevel {
		return doc, &domain.OperationError{Op: OpSetHeadingLevel, Kind: "block", ID: blockID, Reason: "level out of range"}
	}
	next := doc.Clone()
	next.Outline[idx].Level = level
	return next, nil
}

func (e *Engine) DeleteOutlineBlock(doc domain.Workspace, blockID string) (domain.Workspace, error) {
	idx := doc.BlockIndex(blockID)
	if idx < 0 {
		return doc, domain.NotFoundOp(OpDeleteBlock, "block", blockID)
	}
	next := doc.Clone()
	next.Outline = compact(append(next.Outline[:idx], next.Outline[idx+1:]...))
	return next, nil
}

func (e *Engine) ReorderOutline(doc domain.Workspace, order []string) (domain.Workspace, error) {
	next := doc.Clone()
	blocks, err := permute(next.Outline, func(b domain.OutlineBlock) string { return b.ID }, order)
	if err != nil {
		return doc, &domain.OperationError{Op: OpReorderOutline, Reason: err.Error()}
	}
	next.Outline = blocks
	return next, nil
}

// TitleOrDefault returns title, or def when title is blank. Callers apply it
// when an edit is committed (blur/save); the engine itself keeps "" as typed.
func TitleOrDefault(title, def string) string {
	if strings.TrimSpace(title) == "" {
		return def
	}
	return title
}

// compact returns nil for an empty slice so empty collections have one
// representation.
func compact[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
