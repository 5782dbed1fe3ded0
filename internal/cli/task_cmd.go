package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage task nodes",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskDatesCmd(app),
		newTaskProgressCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var planRef, title, kind, start string
	var duration, percent int
	var centerX, centerY float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new task node",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}

			// No --title and a terminal: collect fields with a form.
			if title == "" && app.interactive() {
				if err := runTaskForm(&title, &kind, &start, &duration); err != nil {
					return err
				}
			}
			if title == "" {
				return fmt.Errorf("a title is required (use --title)")
			}
			if kind == "" {
				kind = string(domain.KindTask)
			}
			if !domain.ValidNodeKinds[kind] {
				return fmt.Errorf("invalid kind %q (task|milestone|resource)", kind)
			}

			in := service.TaskInput{
				Title:           title,
				Kind:            domain.NodeKind(kind),
				DurationDays:    duration,
				PercentComplete: percent,
				CenterX:         centerX,
				CenterY:         centerY,
			}
			if start != "" {
				t, err := time.Parse(domain.DateLayout, start)
				if err != nil {
					return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", start)
				}
				in.Start = &t
			}

			n, err := app.Graph.AddTask(ctx, plan.ID, in)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s #%d %s\n", n.Kind, n.ID, n.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&kind, "kind", "", "Node kind (task|milestone|resource)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&duration, "days", 1, "Duration in days")
	cmd.Flags().IntVar(&percent, "done", 0, "Percent complete")
	cmd.Flags().Float64Var(&centerX, "x", 0, "Layout center X")
	cmd.Flags().Float64Var(&centerY, "y", 0, "Layout center Y")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newTaskDatesCmd(app *App) *cobra.Command {
	var planRef, start string
	var duration int

	cmd := &cobra.Command{
		Use:   "dates ID",
		Short: "Set a task's start date and duration",
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
			t, err := time.Parse(domain.DateLayout, start)
			if err != nil {
				return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", start)
			}
			return app.Graph.SetTaskDates(ctx, plan.ID, id, t, duration)
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&duration, "days", -1, "Duration in days (unchanged when omitted)")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newTaskProgressCmd(app *App) *cobra.Command {
	var planRef string
	var percent int

	cmd := &cobra.Command{
		Use:   "progress ID",
		Short: "Set a task's percent complete",
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
			return app.Graph.SetProgress(ctx, plan.ID, id, percent)
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	cmd.Flags().IntVar(&percent, "done", 0, "Percent complete (0-100)")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("done")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task node and its dependencies",
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
			return app.Graph.RemoveTask(ctx, plan.ID, id)
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func parseNodeID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q", arg)
	}
	return id, nil
}
