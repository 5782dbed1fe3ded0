package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/okerlund/planfold/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanRemoveCmd(app),
		newPlanImportCmd(app),
		newPlanExportCmd(app),
	)

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new empty plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.Create(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created plan %s (%s)\n", p.Name, p.DisplayID())
			return nil
		},
	}
}

func newPlanListCmd(app *App) *cobra.Command {
	var includeArchived bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(context.Background(), includeArchived)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Println(formatter.Dim("No plans yet."))
				return nil
			}
			for _, p := range plans {
				line := fmt.Sprintf("%s  %s", formatter.TruncID(p.ID), formatter.Bold(p.Name))
				if p.Status == "archived" {
					line += "  " + formatter.Dim("(archived)")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeArchived, "all", false, "Include archived plans")
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show PLAN",
		Short: "Show plan details and task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, args[0])
			if err != nil {
				return err
			}
			snap, err := app.Graph.Snapshot(ctx, plan.ID)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(formatter.Header(plan.Name) + "\n")
			for _, n := range snap.Graph.Nodes() {
				mark := " "
				if snap.Critical[n.ID] {
					mark = formatter.StyleRed.Render("*")
				}
				b.WriteString(fmt.Sprintf("%s #%-3d %-9s %-28s %s %s\n",
					mark, n.ID, formatter.KindBadge(n.Kind), n.Title,
					formatter.DateSpan(n), formatter.Progress(n.PercentComplete)))
			}
			if len(snap.Graph.Nodes()) == 0 {
				b.WriteString(formatter.Dim("empty plan") + "\n")
			}
			fmt.Print(b.String())
			return nil
		},
	}
	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PLAN",
		Short: "Delete a plan and all its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.Delete(ctx, plan.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted plan %s\n", plan.Name)
			return nil
		},
	}
}

func newPlanImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a plan from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportPlan(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported plan %s (%s): %d nodes, %d edges\n",
				result.Plan.Name, result.Plan.DisplayID(), result.NodeCount, result.EdgeCount)
			return nil
		},
	}
}

func newPlanExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export PLAN FILE",
		Short: "Export a plan to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Import.ExportPlan(ctx, plan.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Exported plan %s to %s\n", plan.Name, args[1])
			return nil
		},
	}
}
