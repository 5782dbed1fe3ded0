package cli

import (
	"context"
	"fmt"

	"github.com/okerlund/planfold/internal/cli/formatter"
	"github.com/okerlund/planfold/internal/graph"
	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	var planRef string
	var width int
	var showCritical, nodeView bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render the plan as a text Gantt chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}
			snap, err := app.Graph.Snapshot(ctx, plan.ID)
			if err != nil {
				return err
			}

			opts := formatter.GanttOptions{Width: width, Projection: graph.GanttView}
			if nodeView {
				opts.Projection = graph.NodeView
			}
			if showCritical {
				opts.Critical = snap.Critical
			}

			fmt.Println(formatter.Header(plan.Name))
			fmt.Print(formatter.RenderGantt(snap.Graph, opts))
			return nil
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	cmd.Flags().IntVar(&width, "width", 60, "Bar area width in columns")
	cmd.Flags().BoolVar(&showCritical, "critical", false, "Highlight critical-path tasks")
	cmd.Flags().BoolVar(&nodeView, "nodes", false, "Use node-view visibility (show expanded group headers)")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}
