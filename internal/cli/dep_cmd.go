package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okerlund/planfold/internal/cli/formatter"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage dependency edges",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepRemoveCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var planRef, depType string
	var lag int

	cmd := &cobra.Command{
		Use:   "add FROM TO",
		Short: "Add a dependency between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}
			from, err := parseNodeID(args[0])
			if err != nil {
				return err
			}
			to, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			if depType != "" && !domain.ValidDependencyTypes[depType] {
				return fmt.Errorf("invalid dependency type %q (FS|SS|FF|SF)", depType)
			}

			e, err := app.Graph.AddDependency(ctx, plan.ID, from, to, domain.DependencyType(depType), lag)
			if errors.Is(err, graph.ErrSelfDependency) {
				fmt.Println(formatter.Dim("Ignored: a task cannot depend on itself."))
				return nil
			}
			if err != nil {
				return err
			}
			if e == nil {
				fmt.Println(formatter.Dim("Ignored: unknown node id."))
				return nil
			}
			fmt.Printf("Added %s dependency #%d → #%d", e.Type, e.From, e.To)
			if e.LagDays != 0 {
				fmt.Printf(" (lag %+dd)", e.LagDays)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	cmd.Flags().StringVar(&depType, "type", "FS", "Dependency type (FS|SS|FF|SF)")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days (negative = lead)")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "rm FROM TO",
		Short: "Remove the dependency between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}
			from, err := parseNodeID(args[0])
			if err != nil {
				return err
			}
			to, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			return app.Graph.RemoveDependency(ctx, plan.ID, from, to)
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}
