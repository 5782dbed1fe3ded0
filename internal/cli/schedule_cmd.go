package cli

import (
	"context"
	"fmt"

	"github.com/okerlund/planfold/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Propagate dates through the dependency graph",
	}

	cmd.AddCommand(newScheduleFromCmd(app))

	return cmd
}

func newScheduleFromCmd(app *App) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "from ID",
		Short: "Auto-schedule all transitive successors of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}
			id, err := parseNodeID(args[0])
			if err != nil {
				return err
			}

			res, err := app.Graph.AutoScheduleFrom(ctx, plan.ID, id)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d node(s)\n", len(res.Updated))
			if len(res.Unfinalized) > 0 {
				fmt.Println(formatter.StyleYellow.Render(
					fmt.Sprintf("Warning: %d node(s) left unscheduled (dependency cycle): %v",
						len(res.Unfinalized), res.Unfinalized)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}
