package domain

import (
	"strings"
	"time"
)

// ProjectSummary is the Project Index entry for a saved workspace. It is a
// derived cache; the workspace snapshot is authoritative.
type ProjectSummary struct {
	ID                string
	Title             string
	LastModifiedAt    time.Time
	NoteCount         int
	ItemCount         int
	OutlineBlockCount int
	HasContext        bool
}

// SummarizeWorkspace derives the index entry for w as of at.
func SummarizeWorkspace(w Workspace, at time.Time) ProjectSummary {
	return ProjectSummary{
		ID:                w.ID,
		Title:             CoalesceStr(strings.TrimSpace(w.Title), DefaultWorkspaceTitle),
		LastModifiedAt:    at.UTC(),
		NoteCount:         len(w.Notes),
		ItemCount:         w.ItemCount(),
		OutlineBlockCount: len(w.Outline),
		HasContext:        strings.TrimSpace(w.BackgroundContext) != "",
	}
}

// DisplayID returns the best short identifier for display: the first 8
// characters of the id.
func (p *ProjectSummary) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
