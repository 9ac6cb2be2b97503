package workspace

import "github.com/alexanderramin/prepdesk/internal/domain"

// Operation names, used in errors and use-case telemetry.
const (
	OpRenameDocument  = "rename_document"
	OpSetContext      = "set_context"
	OpAddNote         = "add_note"
	OpRenameNote      = "rename_note"
	OpReorderNotes    = "reorder_notes"
	OpDeleteNote      = "delete_note"
	OpAddItem         = "add_item"
	OpDeleteItem      = "delete_item"
	OpReorderItems    = "reorder_items"
	OpAddBlock        = "add_outline_block"
	OpUpdateBlockText = "update_outline_block_text"
	OpSetHeadingLevel = "set_heading_level"
	OpDeleteBlock     = "delete_outline_block"
	OpReorderOutline  = "reorder_outline"
	OpReset           = "reset_document"
)

// Effect reports ids created by an operation.
type Effect struct {
	NoteID  string
	ItemID  string
	BlockID string
}

// Op is one mutation of a workspace document.
type Op interface {
	Name() string
	apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error)
}

// textOp is implemented by ops that write free text into the document.
type textOp interface {
	texts() []string
}

// Apply runs op against doc and returns the next document. On error doc is
// returned unchanged. Text that is not valid UTF-8 is rejected.
func (e *Engine) Apply(doc domain.Workspace, op Op) (domain.Workspace, Effect, error) {
	if t, ok := op.(textOp); ok {
		if err := domain.CheckText(op.Name(), t.texts()...); err != nil {
			return doc, Effect{}, err
		}
	}
	return op.apply(e, doc)
}

type RenameDocumentOp struct{ Title string }

func (o RenameDocumentOp) texts() []string { return []string{o.Title} }
func (RenameDocumentOp) Name() string { return OpRenameDocument }
func (o RenameDocumentOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	return e.Rename(doc, o.Title), Effect{}, nil
}

type SetContextOp struct{ Text string }

func (o SetContextOp) texts() []string { return []string{o.Text} }
func (SetContextOp) Name() string { return OpSetContext }
func (o SetContextOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	return e.SetContext(doc, o.Text), Effect{}, nil
}

type AddNoteOp struct{ Title string }

func (o AddNoteOp) texts() []string { return []string{o.Title} }
func (AddNoteOp) Name() string { return OpAddNote }
func (o AddNoteOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, id := e.AddNote(doc, o.Title)
	return next, Effect{NoteID: id}, nil
}

type RenameNoteOp struct {
	NoteID string
	Title  string
}

func (o RenameNoteOp) texts() []string { return []string{o.Title} }
func (RenameNoteOp) Name() string { return OpRenameNote }
func (o RenameNoteOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.RenameNote(doc, o.NoteID, o.Title)
	return next, Effect{}, err
}

type ReorderNotesOp struct{ Order []string }

func (ReorderNotesOp) Name() string { return OpReorderNotes }
func (o ReorderNotesOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.ReorderNotes(doc, o.Order)
	return next, Effect{}, err
}

type DeleteNoteOp struct{ NoteID string }

func (DeleteNoteOp) Name() string { return OpDeleteNote }
func (o DeleteNoteOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.DeleteNote(doc, o.NoteID)
	return next, Effect{}, err
}

// AddItemOp targets a concrete note id. The Session resolves ActiveNote
// before it reaches the engine.
type AddItemOp struct {
	NoteID string
	Item   domain.Item
}

func (AddItemOp) Name() string { return OpAddItem }
func (o AddItemOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, id, err := e.AddItem(doc, o.NoteID, o.Item)
	if err != nil {
		return next, Effect{}, err
	}
	return next, Effect{NoteID: o.NoteID, ItemID: id}, nil
}

type DeleteItemOp struct {
	NoteID string
	ItemID string
}

func (DeleteItemOp) Name() string { return OpDeleteItem }
func (o DeleteItemOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.DeleteItem(doc, o.NoteID, o.ItemID)
	return next, Effect{}, err
}

type ReorderItemsOp struct {
	NoteID string
	Order  []string
}

func (ReorderItemsOp) Name() string { return OpReorderItems }
func (o ReorderItemsOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.ReorderItems(doc, o.NoteID, o.Order)
	return next, Effect{}, err
}

type AddOutlineBlockOp struct{ Kind domain.BlockKind }

func (AddOutlineBlockOp) Name() string { return OpAddBlock }
func (o AddOutlineBlockOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, id, err := e.AddOutlineBlock(doc, o.Kind)
	return next, Effect{BlockID: id}, err
}

type UpdateOutlineBlockTextOp struct {
	BlockID string
	Text    string
}

func (o UpdateOutlineBlockTextOp) texts() []string { return []string{o.Text} }
func (UpdateOutlineBlockTextOp) Name() string { return OpUpdateBlockText }
func (o UpdateOutlineBlockTextOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.UpdateOutlineBlockText(doc, o.BlockID, o.Text)
	return next, Effect{}, err
}

type SetHeadingLevelOp struct {
	BlockID string
	Level   int
}

func (SetHeadingLevelOp) Name() string { return OpSetHeadingLevel }
func (o SetHeadingLevelOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.SetHeadingLevel(doc, o.BlockID, o.Level)
	return next, Effect{}, err
}

type DeleteOutlineBlockOp struct{ BlockID string }

func (DeleteOutlineBlockOp) Name() string { return OpDeleteBlock }
func (o DeleteOutlineBlockOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.DeleteOutlineBlock(doc, o.BlockID)
	return next, Effect{}, err
}

type ReorderOutlineOp struct{ Order []string }

func (ReorderOutlineOp) Name() string { return OpReorderOutline }
func (o ReorderOutlineOp) apply(e *Engine, doc domain.Workspace) (domain.Workspace, Effect, error) {
	next, err := e.ReorderOutline(doc, o.Order)
	return next, Effect{}, err
}

// ResetOp discards doc and produces a fresh default document with a new id.
type ResetOp struct{}

func (ResetOp) Name() string { return OpReset }
func (ResetOp) apply(e *Engine, _ domain.Workspace) (domain.Workspace, Effect, error) {
	return e.New(), Effect{}, nil
}
