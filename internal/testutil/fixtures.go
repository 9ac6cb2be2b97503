package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/google/uuid"
)

var fixtureCounter atomic.Int64

func nextFixtureID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, fixtureCounter.Add(1))
}

// Workspace options
type WorkspaceOption func(*domain.Workspace)

func WithContext(text string) WorkspaceOption {
	return func(w *domain.Workspace) {
		w.BackgroundContext = text
	}
}

func WithSavedAt(t time.Time) WorkspaceOption {
	return func(w *domain.Workspace) {
		t = t.UTC()
		w.LastSavedAt = &t
	}
}

// WithNote appends a note holding one manual text item per content string.
func WithNote(title string, contents ...string) WorkspaceOption {
	return func(w *domain.Workspace) {
		n := domain.Note{ID: nextFixtureID("note"), Title: title}
		for _, c := range contents {
			n.Items = append(n.Items, domain.Item{
				ID:         nextFixtureID("item"),
				Kind:       domain.ItemText,
				Content:    c,
				Provenance: domain.ProvenanceManual,
			})
		}
		w.Notes = append(w.Notes, n)
	}
}

// WithWebItem appends a web-captured item to the last note.
func WithWebItem(content, sourceTitle, sourceDomain string) WorkspaceOption {
	return func(w *domain.Workspace) {
		if len(w.Notes) == 0 {
			w.Notes = append(w.Notes, domain.Note{ID: nextFixtureID("note"), Title: domain.DefaultCaptureTitle})
		}
		last := &w.Notes[len(w.Notes)-1]
		last.Items = append(last.Items, domain.Item{
			ID:         nextFixtureID("item"),
			Kind:       domain.ItemText,
			Content:    content,
			Provenance: domain.ProvenanceWeb,
			Source:     &domain.Source{Title: sourceTitle, Domain: sourceDomain},
		})
	}
}

func WithParagraph(text string) WorkspaceOption {
	return func(w *domain.Workspace) {
		w.Outline = append(w.Outline, domain.OutlineBlock{
			ID:   nextFixtureID("block"),
			Kind: domain.BlockParagraph,
			Text: text,
		})
	}
}

// NewTestWorkspace returns a workspace with a uuid id, the given title and
// one level-1 heading, then applies opts.
func NewTestWorkspace(title string, opts ...WorkspaceOption) domain.Workspace {
	w := domain.Workspace{
		ID:    uuid.New().String(),
		Title: title,
		Outline: []domain.OutlineBlock{{
			ID:    nextFixtureID("block"),
			Kind:  domain.BlockHeading,
			Level: 1,
			Text:  title,
		}},
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// Summary options
type SummaryOption func(*domain.ProjectSummary)

func WithModifiedAt(t time.Time) SummaryOption {
	return func(s *domain.ProjectSummary) {
		s.LastModifiedAt = t.UTC()
	}
}

func WithCounts(notes, items, blocks int) SummaryOption {
	return func(s *domain.ProjectSummary) {
		s.NoteCount = notes
		s.ItemCount = items
		s.OutlineBlockCount = blocks
	}
}

func NewTestSummary(title string, opts ...SummaryOption) *domain.ProjectSummary {
	s := &domain.ProjectSummary{
		ID:             uuid.New().String(),
		Title:          title,
		LastModifiedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
