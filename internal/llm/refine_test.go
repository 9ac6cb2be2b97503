package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient answers every Generate call with text or err and records
// the requests.
type stubClient struct {
	text     string
	err      error
	requests []GenerateRequest
}

func (c *stubClient) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	return &GenerateResponse{Text: c.text, Model: "stub"}, nil
}

func (c *stubClient) Available(context.Context) bool { return c.err == nil }

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{
		"improve":     ActionImprove,
		"Shorten":     ActionShorten,
		"change-tone": ActionChangeTone,
		"change_tone": ActionChangeTone,
	} {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAction("translate")
	assert.ErrorContains(t, err, `unknown refinement action "translate"`)
}

func TestRefinePrompts_DifferPerAction(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Actions {
		system, user, err := RefinePrompts(a, "Our Series B closed in May.")
		require.NoError(t, err)
		assert.Contains(t, user, "Our Series B closed in May.")
		assert.False(t, seen[system], "action %s reuses another action's prompt", a)
		seen[system] = true
	}

	_, _, err := RefinePrompts("translate", "x")
	assert.Error(t, err)
}

func TestRefine(t *testing.T) {
	client := &stubClient{text: "\"Tighter wording.\"\n"}

	got, err := Refine(context.Background(), client, ActionShorten, "A long and winding sentence.")
	require.NoError(t, err)
	assert.Equal(t, "Tighter wording.", got)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, TaskRefine, req.Task)
	assert.Contains(t, req.SystemPrompt, "half its length")
	assert.Contains(t, req.UserPrompt, "A long and winding sentence.")
}

func TestRefine_Errors(t *testing.T) {
	client := &stubClient{text: "unused"}
	_, err := Refine(context.Background(), client, ActionImprove, "   ")
	assert.ErrorIs(t, err, ErrNothingToRefine)
	assert.Empty(t, client.requests, "blank text never reaches the model")

	_, err = Refine(context.Background(), &stubClient{text: "  "}, ActionImprove, "text")
	assert.ErrorIs(t, err, ErrInvalidOutput)

	_, err = Refine(context.Background(), &stubClient{err: ErrTimeout}, ActionImprove, "text")
	assert.True(t, errors.Is(err, ErrTimeout))
}
