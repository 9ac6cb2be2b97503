package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Action is a rewrite applied to a block of outline text.
type Action string

const (
	ActionImprove    Action = "improve"
	ActionShorten    Action = "shorten"
	ActionChangeTone Action = "change_tone"
)

// Actions lists the refinement actions in display order.
var Actions = []Action{ActionImprove, ActionShorten, ActionChangeTone}

// ParseAction accepts an action name; "change-tone" is read as change_tone.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown refinement action %q", s)
}

// ErrNothingToRefine is returned for blank input text.
var ErrNothingToRefine = errors.New("no text to refine")

const refineSystemBase = `You edit interview preparation notes for a podcast host.
Reply with the rewritten text only: no preamble, no quotes, no markdown fences.
Keep the original language and every name, number and date.`

var refineInstructions = map[Action]string{
	ActionImprove:    "Improve clarity and flow. Make the text precise and professional without making it longer than needed.",
	ActionShorten:    "Shorten the text to roughly half its length while keeping every key point.",
	ActionChangeTone: "Rewrite the text in a warm, conversational tone that works when spoken aloud on a podcast.",
}

// RefinePrompts returns the system and user prompts for action.
func RefinePrompts(action Action, text string) (system, user string, err error) {
	instr, ok := refineInstructions[action]
	if !ok {
		return "", "", fmt.Errorf("unknown refinement action %q", action)
	}
	return refineSystemBase + "\n" + instr, "Text:\n" + text, nil
}

// Refine rewrites text with the given action and returns the cleaned answer.
func Refine(ctx context.Context, client Client, action Action, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNothingToRefine
	}
	system, user, err := RefinePrompts(action, text)
	if err != nil {
		return "", err
	}
	resp, err := client.Generate(ctx, GenerateRequest{
		Task:         TaskRefine,
		SystemPrompt: system,
		UserPrompt:   user,
	})
	if err != nil {
		return "", err
	}
	return CleanText(resp.Text)
}
