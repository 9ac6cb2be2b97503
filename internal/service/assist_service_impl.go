package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/llm"
	"github.com/alexanderramin/prepdesk/internal/search"
	"github.com/alexanderramin/prepdesk/internal/workspace"
)

const opRefineBlock = "refine_block"

type assistService struct {
	client   llm.Client
	observer UseCaseObserver
}

func NewAssistService(client llm.Client, observers ...UseCaseObserver) AssistService {
	return &assistService{
		client:   client,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *assistService) ProposeRefinement(ctx context.Context, doc domain.Workspace, blockID string, action llm.Action) (r *Refinement, err error) {
	fields := map[string]any{"workspace_id": doc.ID, "block_id": blockID, "action": string(action)}
	defer observe(ctx, s.observer, "propose-refinement", time.Now().UTC(), fields, &err)

	idx := doc.BlockIndex(blockID)
	if idx < 0 {
		return nil, domain.NotFoundOp(opRefineBlock, "block", blockID)
	}
	original := doc.Outline[idx].Text
	refined, err := llm.Refine(ctx, s.client, action, original)
	if err != nil {
		if errors.Is(err, llm.ErrNothingToRefine) {
			return nil, &domain.OperationError{Op: opRefineBlock, Kind: "block", ID: blockID, Reason: "block has no text"}
		}
		return nil, err
	}
	fields["chars_before"] = len([]rune(original))
	fields["chars_after"] = len([]rune(refined))
	return &Refinement{BlockID: blockID, Action: action, Original: original, Refined: refined}, nil
}

func (s *assistService) RefineBlock(ctx context.Context, sess *workspace.Session, blockID string, action llm.Action) (*Refinement, error) {
	r, err := s.ProposeRefinement(ctx, sess.Document(), blockID, action)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Apply(r.Op()); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *assistService) SummarizeResults(ctx context.Context, query, background string, results []contract.SearchResult) (summary *llm.Summary, err error) {
	fields := map[string]any{"query": query, "results": len(results)}
	defer observe(ctx, s.observer, "summarize-results", time.Now().UTC(), fields, &err)

	sources := make([]llm.Source, len(results))
	for i, r := range results {
		sources[i] = llm.Source{
			Title:   search.PlainText(r.Episode.Title),
			Snippet: search.PlainText(r.Episode.Description),
			URL:     r.Episode.URL,
		}
	}
	summary, err = llm.Summarize(ctx, s.client, query, background, sources)
	if err != nil {
		return nil, err
	}
	fields["citations"] = len(summary.Citations)
	return summary, nil
}
