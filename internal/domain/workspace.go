package domain

import (
	"slices"
	"time"
	"unicode/utf8"
)

// Default titles applied when the user has not provided one.
const (
	DefaultWorkspaceTitle = "Untitled interview"
	DefaultNoteTitle      = "New note"
	DefaultCaptureTitle   = "Research"
)

// Workspace is the full state of one interview-preparation session.
type Workspace struct {
	ID                string
	Title             string
	BackgroundContext string
	Notes             []Note
	Outline           []OutlineBlock
	LastSavedAt       *time.Time
}

// Note is a named, ordered bucket of research items.
type Note struct {
	ID    string
	Title string
	Items []Item
}

// Item is one captured fact or media clipping.
type Item struct {
	ID         string
	Kind       ItemKind
	Content    string // text body or image reference
	Provenance Provenance
	Source     *Source // only set when Provenance is web
}

// Source records where a web-captured item came from.
type Source struct {
	Title  string
	Domain string
}

// OutlineBlock is one heading or paragraph of the composed outline.
type OutlineBlock struct {
	ID    string
	Kind  BlockKind
	Level int // headings only
	Text  string
}

// Validate checks the tagged-variant rules for an item, independent of its id.
func (it Item) Validate() error {
	if !it.Kind.Valid() {
		return &OperationError{Op: "item", Reason: "unknown kind " + string(it.Kind)}
	}
	if it.Content == "" {
		return &OperationError{Op: "item", Reason: "content is required"}
	}
	if err := CheckText("item", it.Content); err != nil {
		return err
	}
	switch it.Provenance {
	case ProvenanceManual:
		if it.Source != nil {
			return &OperationError{Op: "item", Reason: "source is only allowed on web items"}
		}
	case ProvenanceWeb:
		if it.Source != nil {
			if err := CheckText("item", it.Source.Title, it.Source.Domain); err != nil {
				return err
			}
		}
	default:
		return &OperationError{Op: "item", Reason: "unknown provenance " + string(it.Provenance)}
	}
	return nil
}

// CheckText rejects strings that are not valid UTF-8. Every text field of a
// document must be valid UTF-8 for a saved snapshot to load back unchanged.
func CheckText(op string, texts ...string) error {
	for _, t := range texts {
		if !utf8.ValidString(t) {
			return &OperationError{Op: op, Reason: "text is not valid UTF-8"}
		}
	}
	return nil
}

// Clone returns a deep copy so mutations on the copy never alias w.
func (w Workspace) Clone() Workspace {
	out := w
	if w.Notes != nil {
		out.Notes = make([]Note, len(w.Notes))
		for i, n := range w.Notes {
			out.Notes[i] = n.Clone()
		}
	}
	out.Outline = slices.Clone(w.Outline)
	if w.LastSavedAt != nil {
		t := *w.LastSavedAt
		out.LastSavedAt = &t
	}
	return out
}

// Clone returns a deep copy of the note and its items.
func (n Note) Clone() Note {
	out := n
	if n.Items != nil {
		out.Items = make([]Item, len(n.Items))
		for i, it := range n.Items {
			out.Items[i] = it
			if it.Source != nil {
				src := *it.Source
				out.Items[i].Source = &src
			}
		}
	}
	return out
}

// NoteIndex returns the position of the note with the given id, or -1.
func (w Workspace) NoteIndex(id string) int {
	return slices.IndexFunc(w.Notes, func(n Note) bool { return n.ID == id })
}

// BlockIndex returns the position of the outline block with the given id, or -1.
func (w Workspace) BlockIndex(id string) int {
	return slices.IndexFunc(w.Outline, func(b OutlineBlock) bool { return b.ID == id })
}

// ItemIndex returns the position of an item inside a note, or -1.
func (n Note) ItemIndex(id string) int {
	return slices.IndexFunc(n.Items, func(it Item) bool { return it.ID == id })
}

// NoteIDs returns the note ids in display order.
func (w Workspace) NoteIDs() []string {
	ids := make([]string, len(w.Notes))
	for i, n := range w.Notes {
		ids[i] = n.ID
	}
	return ids
}

// HasID reports whether any note, item or block in the document uses id.
func (w Workspace) HasID(id string) bool {
	if id == w.ID {
		return true
	}
	for _, n := range w.Notes {
		if n.ID == id || n.ItemIndex(id) >= 0 {
			return true
		}
	}
	return w.BlockIndex(id) >= 0
}

// ItemCount returns the number of items across all notes.
func (w Workspace) ItemCount() int {
	total := 0
	for _, n := range w.Notes {
		total += len(n.Items)
	}
	return total
}
