package cli

import (
	"time"

	"github.com/alexanderramin/prepdesk/internal/search"
	"github.com/alexanderramin/prepdesk/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all services used by CLI commands.
type App struct {
	Workspaces service.WorkspaceService
	Projects   service.ProjectIndexService
	// Search is nil when no search endpoint is configured.
	Search search.Client
	// Assist is nil when the LLM is disabled.
	Assist service.AssistService

	// DefaultWorkspace is used when --workspace is not given. Empty means
	// the most recently saved workspace.
	DefaultWorkspace string
	SearchDebounce   time.Duration

	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "prepdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var workspaceRef string

	root := &cobra.Command{
		Use:           "prepdesk",
		Short:         "Interview preparation notes, outline and episode search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&workspaceRef, "workspace", "w", "",
		"workspace id or id prefix (default: most recently saved)")

	ref := func() string { return workspaceRef }

	root.AddCommand(
		newNewCmd(app),
		newShowCmd(app, ref),
		newRenameCmd(app, ref),
		newContextCmd(app, ref),
		newResetCmd(app, ref),
		newNoteCmd(app, ref),
		newItemCmd(app, ref),
		newOutlineCmd(app, ref),
		newProjectCmd(app, ref),
		newSearchCmd(app, ref),
		newBoardCmd(app, ref),
	)

	return root
}
