package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// prepdeskHuhTheme returns a huh theme matching the formatter palette.
func prepdeskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmForm asks a yes/no question. Declining is not an error.
func confirmForm(title, description string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Delete").
				Negative("Keep").
				Value(result),
		),
	).WithTheme(prepdeskHuhTheme()).WithShowHelp(false)
}

// titleForm prompts for a workspace title. A blank answer keeps the default.
func titleForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Interview title").
				Placeholder(domain.DefaultWorkspaceTitle).
				Value(value).
				Validate(func(s string) error {
					if len(strings.TrimSpace(s)) > 200 {
						return fmt.Errorf("title is too long")
					}
					return nil
				}),
		),
	).WithTheme(prepdeskHuhTheme()).WithShowHelp(false)
}

// runForm runs f and reports whether the user completed it.
func runForm(f *huh.Form) (bool, error) {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
