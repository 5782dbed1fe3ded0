package cli

import (
	"github.com/okerlund/planfold/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans  service.PlanService
	Graph  service.GraphService
	Import service.ImportService

	// IsInteractive reports whether stdin is a terminal; interactive forms
	// are offered only when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "planfold" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "planfold",
		Short: "Task-dependency graph engine for project plans",
	}

	root.AddCommand(
		newPlanCmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newGroupCmd(app),
		newScheduleCmd(app),
		newLevelCmd(app),
		newViewCmd(app),
		newTUICmd(app),
	)

	return root
}
