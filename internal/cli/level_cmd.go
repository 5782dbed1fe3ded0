package cli

import (
	"context"
	"fmt"

	"github.com/okerlund/planfold/internal/leveling"
	"github.com/spf13/cobra"
)

func newLevelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level",
		Short: "Resolve resource over-allocation by delaying tasks",
	}

	cmd.AddCommand(newLevelRunCmd(app))

	return cmd
}

func newLevelRunCmd(app *App) *cobra.Command {
	var planRef string
	var parallel int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the serial leveling solver and apply its result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}
			if parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1, got %d", parallel)
			}

			moved, err := app.Graph.LevelResources(ctx, plan.ID, leveling.Config{MaxParallel: parallel})
			if err != nil {
				return err
			}
			fmt.Printf("Leveling complete: %d field(s) adjusted\n", moved)
			return nil
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	cmd.Flags().IntVar(&parallel, "parallel", 2, "Maximum concurrent tasks per day")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}
