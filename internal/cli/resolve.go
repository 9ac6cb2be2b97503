package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/spf13/cobra"
)

var errNoWorkspaces = errors.New("no saved workspaces (create one with 'prepdesk new')")

// resolveWorkspaceID turns a workspace reference into a full id. The
// reference can be a full id or a unique id prefix; an empty reference falls
// back to App.DefaultWorkspace, then to the most recently saved workspace.
func resolveWorkspaceID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		input = app.DefaultWorkspace
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	if input == "" {
		if len(projects) == 0 {
			return "", errNoWorkspaces
		}
		return projects[0].ID, nil
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		// The index is a cache; a snapshot may still exist under the exact id.
		return input, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("workspace ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// openSession resolves ref and opens the workspace. A recovery warning is
// written to stderr; the recovered document is only stored on the next save.
func openSession(cmd *cobra.Command, app *App, ref string) (*workspace.Session, error) {
	ctx := cmd.Context()
	id, err := resolveWorkspaceID(ctx, app, ref)
	if err != nil {
		return nil, err
	}
	res, err := app.Workspaces.Open(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("workspace not found: %q", id)
		}
		return nil, err
	}
	if res.Recovered {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", res.Warning)
	}
	return res.Session, nil
}

// mutate opens the workspace, runs fn and saves. Every mutating command is
// one explicit user action, so it always ends in a save.
func mutate(cmd *cobra.Command, app *App, ref string, fn func(*workspace.Session) (string, error)) error {
	sess, err := openSession(cmd, app, ref)
	if err != nil {
		return err
	}
	msg, err := fn(sess)
	if err != nil {
		return err
	}
	if _, err := app.Workspaces.Save(cmd.Context(), sess); err != nil {
		return fmt.Errorf("saving workspace: %w", err)
	}
	if msg != "" {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	return nil
}

// resolveRef matches input against ids. Accepted forms are "#N" (1-based
// position), a full id, or a unique id prefix.
func resolveRef(kind string, ids []string, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	if pos, ok := strings.CutPrefix(input, "#"); ok {
		n, err := strconv.Atoi(pos)
		if err != nil || n < 1 || n > len(ids) {
			return "", fmt.Errorf("%s #%s out of range (have %d)", kind, pos, len(ids))
		}
		return ids[n-1], nil
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveNote(doc domain.Workspace, input string) (string, error) {
	return resolveRef("note", doc.NoteIDs(), input)
}

func resolveItem(doc domain.Workspace, noteID, input string) (string, error) {
	idx := doc.NoteIndex(noteID)
	if idx < 0 {
		return "", fmt.Errorf("note not found: %q", noteID)
	}
	return resolveRef("item", itemIDs(doc.Notes[idx]), input)
}

func resolveBlock(doc domain.Workspace, input string) (string, error) {
	return resolveRef("outline block", blockIDs(doc), input)
}

func itemIDs(n domain.Note) []string {
	ids := make([]string, len(n.Items))
	for i, it := range n.Items {
		ids[i] = it.ID
	}
	return ids
}

func blockIDs(doc domain.Workspace) []string {
	ids := make([]string, len(doc.Outline))
	for i, b := range doc.Outline {
		ids[i] = b.ID
	}
	return ids
}

// moveDelta reads the --up/--down/--by flags into a signed step.
func moveDelta(up, down bool, by int) (int, error) {
	switch {
	case up && down:
		return 0, fmt.Errorf("--up and --down are mutually exclusive")
	case up:
		return -by, nil
	case down:
		return by, nil
	default:
		return 0, fmt.Errorf("one of --up or --down is required")
	}
}
