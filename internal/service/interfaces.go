package service

import (
	"context"
	"time"

	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/llm"
	"github.com/alexanderramin/prepdesk/internal/workspace"
)

// OpenResult is the outcome of opening a stored workspace. Recovered is set
// when the snapshot was unreadable and a blank document replaced it; Warning
// then explains why.
type OpenResult struct {
	Session   *workspace.Session
	Recovered bool
	Warning   string
}

type WorkspaceService interface {
	// Create runs the new-document flow: a fresh default document is
	// written before it is returned.
	Create(ctx context.Context, title string) (*workspace.Session, error)
	Open(ctx context.Context, id string) (*OpenResult, error)
	// Save writes snapshot, summary and selection in one transaction.
	Save(ctx context.Context, sess *workspace.Session) (time.Time, error)
	// Reset persists a fresh document with a new id and returns its session.
	// sess is left untouched; its snapshot is deleted only if clearPrevious.
	Reset(ctx context.Context, sess *workspace.Session, clearPrevious bool) (*workspace.Session, error)
	Delete(ctx context.Context, id string) error
}

// ReindexResult reports what a rebuild of the project index did.
type ReindexResult struct {
	Indexed int
	Removed int
	Corrupt []string
}

type ProjectIndexService interface {
	List(ctx context.Context) ([]*domain.ProjectSummary, error)
	Get(ctx context.Context, id string) (*domain.ProjectSummary, error)
	// Remove deletes the summary and the stored document together.
	Remove(ctx context.Context, id string) error
	Reindex(ctx context.Context) (*ReindexResult, error)
}

// Refinement is a rewrite of one outline block's text.
type Refinement struct {
	BlockID  string
	Action   llm.Action
	Original string
	Refined  string
}

// Op returns the mutation that writes the refined text into the document.
func (r *Refinement) Op() workspace.UpdateOutlineBlockTextOp {
	return workspace.UpdateOutlineBlockTextOp{BlockID: r.BlockID, Text: r.Refined}
}

type AssistService interface {
	// ProposeRefinement rewrites the text of a block without changing doc.
	ProposeRefinement(ctx context.Context, doc domain.Workspace, blockID string, action llm.Action) (*Refinement, error)
	// RefineBlock proposes a refinement and applies it to sess. Saving is
	// left to the caller.
	RefineBlock(ctx context.Context, sess *workspace.Session, blockID string, action llm.Action) (*Refinement, error)
	// SummarizeResults writes a cited summary of search results. background
	// is the interview's context and may be empty.
	SummarizeResults(ctx context.Context, query, background string, results []contract.SearchResult) (*llm.Summary, error)
}
