package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/llm"
	"github.com/alexanderramin/prepdesk/internal/testutil"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	text     string
	err      error
	requests []llm.GenerateRequest
}

func (c *stubLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	return &llm.GenerateResponse{Text: c.text}, nil
}

func (c *stubLLM) Available(context.Context) bool { return true }

func TestAssistService_RefineBlockAppliesToSession(t *testing.T) {
	doc := testutil.NewTestWorkspace("Guest", testutil.WithParagraph("we will ask them about the the funding round"))
	sess := workspace.RestoreSession(workspace.NewEngine(nil), doc, "")
	require.False(t, sess.Dirty())
	blockID := doc.Outline[1].ID

	client := &stubLLM{text: "Ask about the funding round."}
	obs := &recordingObserver{}
	assist := NewAssistService(client, obs)

	r, err := assist.RefineBlock(context.Background(), sess, blockID, llm.ActionImprove)
	require.NoError(t, err)
	assert.Equal(t, "we will ask them about the the funding round", r.Original)
	assert.Equal(t, "Ask about the funding round.", r.Refined)

	got := sess.Document()
	assert.Equal(t, "Ask about the funding round.", got.Outline[1].Text)
	assert.Equal(t, doc.Outline[0], got.Outline[0], "other blocks untouched")
	assert.True(t, sess.Dirty())

	require.Len(t, client.requests, 1)
	assert.Equal(t, llm.TaskRefine, client.requests[0].Task)
	assert.Equal(t, []string{"propose-refinement"}, obs.names())
	assert.Equal(t, 44, obs.events[0].Fields["chars_before"])
}

func TestAssistService_ProposeLeavesDocumentAlone(t *testing.T) {
	doc := testutil.NewTestWorkspace("Guest", testutil.WithParagraph("Long text"))
	assist := NewAssistService(&stubLLM{text: "Short"})

	r, err := assist.ProposeRefinement(context.Background(), doc, doc.Outline[1].ID, llm.ActionShorten)
	require.NoError(t, err)
	assert.Equal(t, workspace.UpdateOutlineBlockTextOp{BlockID: doc.Outline[1].ID, Text: "Short"}, r.Op())
	assert.Equal(t, "Long text", doc.Outline[1].Text)
}

func TestAssistService_RefineErrors(t *testing.T) {
	doc := testutil.NewTestWorkspace("Guest", testutil.WithParagraph("  "))
	sess := workspace.RestoreSession(workspace.NewEngine(nil), doc, "")
	client := &stubLLM{text: "unused"}
	obs := &recordingObserver{}
	assist := NewAssistService(client, obs)
	ctx := context.Background()

	_, err := assist.RefineBlock(ctx, sess, "missing", llm.ActionImprove)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = assist.RefineBlock(ctx, sess, doc.Outline[1].ID, llm.ActionImprove)
	var opErr *domain.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "block has no text", opErr.Reason)
	assert.Empty(t, client.requests)

	_, err = NewAssistService(&stubLLM{err: llm.ErrOllamaUnavailable}).
		RefineBlock(ctx, sess, doc.Outline[0].ID, llm.ActionImprove)
	assert.ErrorIs(t, err, llm.ErrOllamaUnavailable)

	assert.False(t, sess.Dirty(), "failed refinements leave the session clean")
	for _, e := range obs.events {
		assert.False(t, e.Success)
	}
}

func TestAssistService_SummarizeResults(t *testing.T) {
	client := &stubLLM{text: `{"summary": "They scaled Go [2].", "citations": [2]}`}
	obs := &recordingObserver{}
	assist := NewAssistService(client, obs)

	results := []contract.SearchResult{
		{Episode: contract.Episode{ID: 1, Title: "Intro", URL: "https://pod.example/1"}},
		{Episode: contract.Episode{ID: 2, Title: "<b>Scaling</b> Go", Description: "<p>Tom &amp; Ana</p>", URL: "https://pod.example/2"}},
	}
	summary, err := assist.SummarizeResults(context.Background(), "go", "CTO interview", results)
	require.NoError(t, err)
	assert.Equal(t, "They scaled Go [2].", summary.Text)
	require.Len(t, summary.Citations, 1)
	assert.Equal(t, llm.Source{Title: "Scaling Go", Snippet: "Tom & Ana", URL: "https://pod.example/2"}, summary.Citations[0].Source)

	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].UserPrompt, "[2] Scaling Go\n")
	assert.Contains(t, client.requests[0].UserPrompt, "CTO interview")
	assert.Equal(t, []string{"summarize-results"}, obs.names())
	assert.Equal(t, 1, obs.events[0].Fields["citations"])

	_, err = assist.SummarizeResults(context.Background(), "go", "", nil)
	assert.ErrorIs(t, err, llm.ErrNoSources)
}
