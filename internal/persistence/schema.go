package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
)

// SchemaVersion is written into every snapshot. Snapshots with any other
// version are rejected as corrupt.
const SchemaVersion = 1

// Wire types. Pointer fields are required: a missing or null value is a
// schema violation rather than a zero value.
type wireWorkspace struct {
	SchemaVersion     int          `json:"schemaVersion"`
	ID                *string      `json:"id"`
	Title             *string      `json:"title"`
	BackgroundContext string       `json:"backgroundContext"`
	Notes             *[]wireNote  `json:"notes"`
	Outline           *[]wireBlock `json:"outline"`
	LastSavedAt       *string      `json:"lastSavedAt,omitempty"`
}

type wireNote struct {
	ID    *string     `json:"id"`
	Title *string     `json:"title"`
	Items *[]wireItem `json:"items"`
}

type wireItem struct {
	ID         *string     `json:"id"`
	Kind       string      `json:"kind"`
	Content    string      `json:"content"`
	Provenance string      `json:"provenance"`
	Source     *wireSource `json:"source,omitempty"`
}

type wireSource struct {
	Title  string `json:"title"`
	Domain string `json:"domain"`
}

type wireBlock struct {
	ID    *string `json:"id"`
	Kind  string  `json:"kind"`
	Level *int    `json:"level,omitempty"`
	Text  *string `json:"text"`
}

// Encode serialises doc. Empty collections are written as []. Text that is
// not valid UTF-8 fails with domain.ErrInvalidOperation instead of being
// replaced by JSON encoding.
func Encode(doc domain.Workspace) ([]byte, error) {
	if err := domain.CheckText("save", documentTexts(doc)...); err != nil {
		return nil, fmt.Errorf("encoding workspace %q: %w", doc.ID, err)
	}
	notes := make([]wireNote, 0, len(doc.Notes))
	for _, n := range doc.Notes {
		items := make([]wireItem, 0, len(n.Items))
		for _, it := range n.Items {
			wi := wireItem{
				ID:         ptr(it.ID),
				Kind:       string(it.Kind),
				Content:    it.Content,
				Provenance: string(it.Provenance),
			}
			if it.Source != nil {
				wi.Source = &wireSource{Title: it.Source.Title, Domain: it.Source.Domain}
			}
			items = append(items, wi)
		}
		notes = append(notes, wireNote{ID: ptr(n.ID), Title: ptr(n.Title), Items: &items})
	}

	outline := make([]wireBlock, 0, len(doc.Outline))
	for _, b := range doc.Outline {
		wb := wireBlock{ID: ptr(b.ID), Kind: string(b.Kind), Text: ptr(b.Text)}
		if b.Kind == domain.BlockHeading {
			wb.Level = ptr(b.Level)
		}
		outline = append(outline, wb)
	}

	w := wireWorkspace{
		SchemaVersion:     SchemaVersion,
		ID:                ptr(doc.ID),
		Title:             ptr(doc.Title),
		BackgroundContext: doc.BackgroundContext,
		Notes:             &notes,
		Outline:           &outline,
	}
	if doc.LastSavedAt != nil {
		w.LastSavedAt = ptr(doc.LastSavedAt.UTC().Format(time.RFC3339Nano))
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encoding workspace %q: %w", doc.ID, err)
	}
	return data, nil
}

func documentTexts(doc domain.Workspace) []string {
	texts := []string{doc.ID, doc.Title, doc.BackgroundContext}
	for _, n := range doc.Notes {
		texts = append(texts, n.ID, n.Title)
		for _, it := range n.Items {
			texts = append(texts, it.ID, it.Content)
			if it.Source != nil {
				texts = append(texts, it.Source.Title, it.Source.Domain)
			}
		}
	}
	for _, b := range doc.Outline {
		texts = append(texts, b.ID, b.Text)
	}
	return texts
}

// Decode parses and validates a snapshot. Every failure wraps
// domain.ErrCorrupt. Empty collections decode as nil.
func Decode(data []byte) (domain.Workspace, error) {
	var w wireWorkspace
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&w); err != nil {
		return domain.Workspace{}, corrupt("malformed json: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Workspace{}, corrupt("trailing data after document")
	}
	return w.toDomain()
}

func (w wireWorkspace) toDomain() (domain.Workspace, error) {
	if w.SchemaVersion != SchemaVersion {
		return domain.Workspace{}, corrupt("unsupported schemaVersion %d", w.SchemaVersion)
	}
	if w.ID == nil || *w.ID == "" {
		return domain.Workspace{}, corrupt("missing id")
	}
	if w.Title == nil {
		return domain.Workspace{}, corrupt("missing title")
	}
	if w.Notes == nil {
		return domain.Workspace{}, corrupt("missing notes")
	}
	if w.Outline == nil {
		return domain.Workspace{}, corrupt("missing outline")
	}

	doc := domain.Workspace{
		ID:                *w.ID,
		Title:             *w.Title,
		BackgroundContext: w.BackgroundContext,
	}
	seen := map[string]string{*w.ID: "workspace"}
	claim := func(id *string, what string) error {
		if id == nil || *id == "" {
			return corrupt("%s without id", what)
		}
		if prev, dup := seen[*id]; dup {
			return corrupt("%s id %q already used by a %s", what, *id, prev)
		}
		seen[*id] = what
		return nil
	}

	for _, wn := range *w.Notes {
		if err := claim(wn.ID, "note"); err != nil {
			return domain.Workspace{}, err
		}
		if wn.Title == nil {
			return domain.Workspace{}, corrupt("note %q: missing title", *wn.ID)
		}
		if wn.Items == nil {
			return domain.Workspace{}, corrupt("note %q: missing items", *wn.ID)
		}
		note := domain.Note{ID: *wn.ID, Title: *wn.Title}
		for _, wi := range *wn.Items {
			if err := claim(wi.ID, "item"); err != nil {
				return domain.Workspace{}, err
			}
			item := domain.Item{
				ID:         *wi.ID,
				Kind:       domain.ItemKind(wi.Kind),
				Content:    wi.Content,
				Provenance: domain.Provenance(wi.Provenance),
			}
			if wi.Source != nil {
				item.Source = &domain.Source{Title: wi.Source.Title, Domain: wi.Source.Domain}
			}
			if err := item.Validate(); err != nil {
				return domain.Workspace{}, corrupt("item %q: %v", item.ID, err)
			}
			note.Items = append(note.Items, item)
		}
		doc.Notes = append(doc.Notes, note)
	}

	for _, wb := range *w.Outline {
		if err := claim(wb.ID, "block"); err != nil {
			return domain.Workspace{}, err
		}
		block, err := wb.toDomain()
		if err != nil {
			return domain.Workspace{}, err
		}
		doc.Outline = append(doc.Outline, block)
	}

	if w.LastSavedAt != nil {
		at, err := time.Parse(time.RFC3339Nano, *w.LastSavedAt)
		if err != nil {
			return domain.Workspace{}, corrupt("lastSavedAt: %v", err)
		}
		at = at.UTC()
		doc.LastSavedAt = &at
	}
	return doc, nil
}

func (wb wireBlock) toDomain() (domain.OutlineBlock, error) {
	kind := domain.BlockKind(wb.Kind)
	if !kind.Valid() {
		return domain.OutlineBlock{}, corrupt("block %q: unknown kind %q", *wb.ID, wb.Kind)
	}
	if wb.Text == nil {
		return domain.OutlineBlock{}, corrupt("block %q: missing text", *wb.ID)
	}
	block := domain.OutlineBlock{ID: *wb.ID, Kind: kind, Text: *wb.Text}
	switch kind {
	case domain.BlockHeading:
		if wb.Level == nil || *wb.Level < domain.MinHeadingLevel || *wb.Level > domain.MaxHeadingLevel {
			return domain.OutlineBlock{}, corrupt("block %q: heading needs a level between %d and %d",
				*wb.ID, domain.MinHeadingLevel, domain.MaxHeadingLevel)
		}
		block.Level = *wb.Level
	case domain.BlockParagraph:
		if wb.Level != nil {
			return domain.OutlineBlock{}, corrupt("block %q: paragraph has a level", *wb.ID)
		}
	}
	return block, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrCorrupt, fmt.Sprintf(format, args...))
}

func ptr[T any](v T) *T { return &v }
